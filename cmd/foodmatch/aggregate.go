package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/foodplanner/backend/internal/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newAggregateCmd(opts *rootOptions) *cobra.Command {
	var (
		people int
		shop   bool
	)

	cmd := &cobra.Command{
		Use:   "aggregate <recipes.yaml>",
		Short: "Sum the ingredients of several recipes into a shopping list",
		Long: `aggregate reads a YAML file with a "recipes" list, each recipe holding a
recipe_id and its ingredients (name, quantity, measure). Quantities of the
same ingredient are summed in base units. With --shop every line is matched
to the cheapest suitable product.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRecipes(args[0])
			if err != nil {
				return err
			}
			if people > 0 {
				req.PeopleCount = people
			}

			out := cmd.OutOrStdout()
			if !shop {
				service := usecase.NewShoppingListService(nil, opts.logger)
				return printAggregation(out, service, req)
			}

			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.Shopping.Generate(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("generate shopping list: %w", err)
			}
			return printShoppingList(out, list)
		},
	}

	cmd.Flags().IntVarP(&people, "people", "p", 0, "number of people (overrides the file)")
	cmd.Flags().BoolVar(&shop, "shop", false, "match every line to a store product")
	return cmd
}

func readRecipes(path string) (usecase.ShoppingListRequest, error) {
	var req usecase.ShoppingListRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read recipes: %w", err)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parse recipes %s: %w", path, err)
	}
	if len(req.Recipes) == 0 {
		return req, fmt.Errorf("no recipes in %s", path)
	}
	return req, nil
}

func printAggregation(out io.Writer, service *usecase.ShoppingListService, req usecase.ShoppingListRequest) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INGREDIENT\tQUANTITY\tUNIT\tRECIPES")
	for _, item := range service.Aggregate(req).Items() {
		quantity, unit := item.TotalQuantity.ToDisplayString()
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", item.NormalizedName, quantity, unit, len(item.RecipeSources))
		for _, dropped := range item.Dropped {
			fmt.Fprintf(w, "  (not added: %s)\t\t\t\n", dropped.String())
		}
	}
	return w.Flush()
}

func printShoppingList(out io.Writer, list *usecase.ShoppingList) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INGREDIENT\tQUANTITY\tPRODUCT\tSTORE\tPRICE")
	for _, item := range list.Items {
		product, store, price := "-", "-", "-"
		if item.Matched() {
			product = item.ProductName
			store = item.StoreName
			price = fmt.Sprintf("%.2f", item.EffectivePrice())
		}
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n", item.NormalizedName, item.Quantity, item.Unit, product, store, price)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d matched, %d unmatched, total %.2f (saved %.2f)\n",
		list.MatchedCount, list.UnmatchedCount, list.TotalCost, list.TotalSavings)
	return nil
}
