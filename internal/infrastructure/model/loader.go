package model

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kirillkom/premium-predictor/internal/core/ports"
)

const maxArtifactBytes = 16 << 20

// Loader reads the artifact stored under key and builds a classifier from it.
type Loader struct {
	source ports.ArtifactSource
	key    string
}

func NewLoader(source ports.ArtifactSource, key string) *Loader {
	return &Loader{source: source, key: key}
}

func (l *Loader) Load(ctx context.Context) (ports.Classifier, error) {
	rc, err := l.source.Open(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxArtifactBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	if len(raw) > maxArtifactBytes {
		return nil, fmt.Errorf("artifact %s exceeds %d bytes", l.key, maxArtifactBytes)
	}

	artifact, err := DecodeArtifact(l.key, raw)
	if err != nil {
		return nil, err
	}
	classifier, err := NewSoftmaxClassifier(artifact)
	if err != nil {
		return nil, err
	}

	slog.Info("model_artifact_decoded",
		"key", l.key,
		"model_type", classifier.ModelType(),
		"classes", classifier.Classes(),
	)
	return classifier, nil
}
