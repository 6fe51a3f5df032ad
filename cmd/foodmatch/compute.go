package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/foodplanner/backend/internal/usecase"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newComputeCmd(opts *rootOptions) *cobra.Command {
	var (
		computeOpts usecase.ComputeOptions
		noProgress  bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Match and store products for every unmatched ingredient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var bar *progressbar.ProgressBar
			if !noProgress {
				bar = newProgressBar("matching")
				computeOpts.OnProgress = func(processed, total int) {
					bar.ChangeMax(total)
					_ = bar.Set(processed)
				}
			}

			summary, err := a.Matcher.ComputeAllMatches(ctx, computeOpts)
			if bar != nil {
				_ = bar.Finish()
			}
			if summary != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "run %s\n", summary.RunID)
				fmt.Fprintf(out, "  ingredients:     %d\n", summary.TotalIngredients)
				fmt.Fprintf(out, "  matched:         %d\n", summary.IngredientsMatched)
				fmt.Fprintf(out, "  matches created: %d\n", summary.TotalMatchesCreated)
				fmt.Fprintf(out, "  no match:        %d\n", summary.IngredientsNoMatch)
				fmt.Fprintf(out, "  errors:          %d\n", summary.Errors)
				fmt.Fprintf(out, "  duration:        %s\n", summary.Duration)
			}
			if err != nil {
				return fmt.Errorf("compute matches: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&computeOpts.MinConfidence, "min-confidence", 0, "minimum confidence to store (default from config)")
	cmd.Flags().IntVar(&computeOpts.TopK, "top-k", 0, "matches stored per ingredient (default from config)")
	cmd.Flags().IntVar(&computeOpts.BatchSize, "batch-size", 0, "ingredients per progress batch (default from config)")
	cmd.Flags().IntVar(&computeOpts.Limit, "limit", 0, "maximum ingredients to process (default from config)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func newProgressBar(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		-1,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("ingredients"),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
