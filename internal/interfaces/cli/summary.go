package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	appscreening "github.com/ukgridlab/solarscreen/internal/application/screening"
)

type summaryOptions struct {
	categories    []string
	minPopulation float64
	output        string
}

func newSummaryCmd(rootOpts *RootOptions) *cobra.Command {
	opts := &summaryOptions{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print headline metrics for the filtered dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.categories, "categories", nil, "category filter (default: all categories)")
	cmd.Flags().Float64Var(&opts.minPopulation, "min-population", 0, "minimum area population")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "output format: table|json")

	return cmd
}

func runSummary(cmd *cobra.Command, rootOpts *RootOptions, opts *summaryOptions) error {
	cfg, err := loadConfig(rootOpts)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	svc, err := newLocalService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	params := appscreening.DefaultViewParams(cfg.Display)
	params.Categories = opts.categories
	params.MinPopulation = opts.minPopulation

	summary, err := svc.Summary(cmd.Context(), params)
	if err != nil {
		return err
	}
	cats, err := svc.Categories(cmd.Context())
	if err != nil {
		return err
	}

	if opts.output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"summary":    summary,
			"categories": cats,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Areas:                 %d\n", summary.Count)
	fmt.Fprintf(out, "Priority areas:        %d\n", summary.PriorityCount)
	fmt.Fprintf(out, "Median uptake /1000:   %s\n", formatOptional(summary.MedianUptake, "%.2f"))
	fmt.Fprintf(out, "Median potential:      %s\n", formatOptional(summary.MedianPotential, "%.3f"))
	fmt.Fprintln(out, "Categories:")
	for _, c := range cats {
		fmt.Fprintf(out, "  - %s\n", c)
	}
	return nil
}
