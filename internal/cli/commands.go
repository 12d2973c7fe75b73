package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
)

func newPredictCommand() *cobra.Command {
	var (
		input      domain.RawUserInput
		occupation string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the premium category for an applicant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := apiClientFromContext(cmd.Context())
			if err != nil {
				return err
			}
			input.Occupation = domain.Occupation(occupation)

			resp, err := apiClient.Predict(cmd.Context(), input)
			if err != nil {
				return err
			}
			renderPrediction(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	occupations := make([]string, 0, len(domain.Occupations()))
	for _, o := range domain.Occupations() {
		occupations = append(occupations, string(o))
	}

	flags := cmd.Flags()
	flags.IntVar(&input.Age, "age", 0, "Age in years")
	flags.Float64Var(&input.Weight, "weight", 0, "Weight in kg")
	flags.Float64Var(&input.Height, "height", 0, "Height in meters")
	flags.Float64Var(&input.IncomeLPA, "income-lpa", 0, "Annual income in lakhs")
	flags.BoolVar(&input.Smoker, "smoker", false, "Applicant smokes")
	flags.StringVar(&input.City, "city", "", "City of residence")
	flags.StringVar(&occupation, "occupation", "", "One of: "+strings.Join(occupations, ", "))
	for _, name := range []string{"age", "weight", "height", "income-lpa", "city", "occupation"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show API health and model readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := apiClientFromContext(cmd.Context())
			if err != nil {
				return err
			}
			health, err := apiClient.Health(cmd.Context())
			if err != nil {
				return err
			}

			status := color.GreenString(health.Status)
			if health.Status != domain.HealthStatusHealthy {
				status = color.RedString(health.Status)
			}
			table := newTable(cmd.OutOrStdout(), "Field", "Value")
			table.Append([]string{"Status", status})
			table.Append([]string{"Version", health.Version})
			table.Append([]string{"Model loaded", strconv.FormatBool(health.ModelLoaded)})
			table.Append([]string{"Checked at", formatTimestamp(health.Timestamp)})
			table.Render()
			return nil
		},
	}
}

func newModelInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "model-info",
		Short: "Describe the loaded model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := apiClientFromContext(cmd.Context())
			if err != nil {
				return err
			}
			info, err := apiClient.ModelInfo(cmd.Context())
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "Field", "Value")
			table.Append([]string{"Model version", info.ModelVersion})
			table.Append([]string{"Model type", info.ModelType})
			table.Append([]string{"Classes", strings.Join(info.Classes, ", ")})
			table.Append([]string{"Features", strings.Join(info.Features, ", ")})
			table.Render()
			return nil
		},
	}
}

func renderPrediction(w io.Writer, resp *domain.PredictionResponse) {
	fmt.Fprintf(w, "Predicted category: %s (confidence %.2f%%)\n\n",
		colorCategory(resp.PredictedCategory), resp.Confidence*100)

	table := newTable(w, "Category", "Probability")
	for _, p := range resp.ClassProbabilities {
		table.Append([]string{p.Label, fmt.Sprintf("%.2f%%", p.Probability*100)})
	}
	table.Render()

	if resp.Metadata == nil {
		return
	}
	in := resp.Metadata.InputFeatures
	fmt.Fprintf(w, "\nModel version %s\n", resp.Metadata.ModelVersion)
	features := newTable(w, "Feature", "Value")
	features.Append([]string{domain.FeatureBMI, strconv.FormatFloat(in.BMI, 'f', 2, 64)})
	features.Append([]string{domain.FeatureAgeGroup, string(in.AgeGroup)})
	features.Append([]string{domain.FeatureLifestyleRisk, string(in.LifestyleRisk)})
	features.Append([]string{domain.FeatureCityTier, strconv.Itoa(in.CityTier)})
	features.Append([]string{domain.FeatureIncomeLPA, strconv.FormatFloat(in.IncomeLPA, 'f', -1, 64)})
	features.Append([]string{domain.FeatureOccupation, string(in.Occupation)})
	features.Render()
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func colorCategory(category string) string {
	switch category {
	case "Low":
		return color.GreenString(category)
	case "Medium":
		return color.YellowString(category)
	case "High":
		return color.RedString(category)
	default:
		return category
	}
}

func formatTimestamp(ts float64) string {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC().Format(time.RFC3339)
}
