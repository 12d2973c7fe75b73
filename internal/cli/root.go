// Package cli implements premiumctl, a terminal front end for the prediction API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kirillkom/premium-predictor/internal/client"
	"github.com/kirillkom/premium-predictor/internal/config"
)

type options struct {
	apiURL  string
	timeout time.Duration
}

type clientKey struct{}

// NewRootCommand builds the command tree. Output goes to out, errors to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "premiumctl",
		Short:         "Insurance premium category predictor",
		Long:          `premiumctl collects applicant attributes and asks the prediction API for a premium category.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.apiURL == "" {
				return fmt.Errorf("api url is required")
			}
			ctx := context.WithValue(cmd.Context(), clientKey{}, client.New(opts.apiURL, opts.timeout))
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", config.Load().FrontendAPIURL, "Base URL of the prediction API (env FRONTEND_API_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "Request timeout")

	root.AddCommand(newPredictCommand(), newHealthCommand(), newModelInfoCommand())
	return root
}

func apiClientFromContext(ctx context.Context) (*client.Client, error) {
	c, ok := ctx.Value(clientKey{}).(*client.Client)
	if !ok || c == nil {
		return nil, fmt.Errorf("api client is not initialized")
	}
	return c, nil
}

// Execute runs premiumctl and exits non-zero on failure.
func Execute() {
	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		renderError(os.Stderr, err)
		os.Exit(1)
	}
}

func renderError(w io.Writer, err error) {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", color.RedString(fmt.Sprintf("Error (%d):", apiErr.StatusCode)), apiErr.Detail)
	for _, v := range apiErr.Errors {
		fmt.Fprintf(w, "  - %s: %s\n", color.YellowString(v.Field), v.Message)
	}
}
