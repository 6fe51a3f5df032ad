package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMatchCmd(opts *rootOptions) *cobra.Command {
	var (
		topK          int
		minConfidence float64
		store         bool
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "match <ingredient>",
		Short: "Show the best catalog products for one ingredient",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.Join(args, " ")

			a, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if minConfidence <= 0 {
				minConfidence = opts.cfg.Matching.MinConfidence
			}

			find := a.Matcher.FindMatches
			if store {
				find = a.Matcher.MatchAndStore
			}
			matches, err := find(ctx, name, topK, minConfidence)
			if err != nil {
				return fmt.Errorf("match %q: %w", name, err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(matches)
			}

			fmt.Fprintf(out, "%s -> %q\n", name, a.Matcher.NormalizeIngredient(name))
			if len(matches) == 0 {
				fmt.Fprintln(out, "no matches")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRODUCT\tNAME\tCONFIDENCE\tTYPE\tTERM")
			for _, m := range matches {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", m.ProductID, m.ProductName, m.ConfidenceScore, m.MatchType, m.MatchedTerm)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of matches (default from config)")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "minimum confidence (default from config)")
	cmd.Flags().BoolVar(&store, "store", false, "persist the matches")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print matches as JSON")
	return cmd
}
