package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/foodplanner/backend/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout accepted by the seed command
type seedFile struct {
	Products    []seedProduct `yaml:"products"`
	Ingredients []string      `yaml:"ingredients"`
}

type seedProduct struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Brand         string   `yaml:"brand"`
	Price         float64  `yaml:"price"`
	DiscountPrice *float64 `yaml:"discount_price"`
	Category      string   `yaml:"category"`
	StoreID       string   `yaml:"store_id"`
	StoreName     string   `yaml:"store_name"`
}

func (p seedProduct) toDomain() domain.Product {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = uuid.NewString()
	}
	return domain.Product{
		ID:            id,
		Name:          strings.TrimSpace(p.Name),
		Brand:         p.Brand,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Category:      p.Category,
		StoreID:       p.StoreID,
		StoreName:     p.StoreName,
	}
}

func readSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	for i, p := range seed.Products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product %d in %s has no name", i+1, path)
		}
	}
	return &seed, nil
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load products and ingredient names into the store",
		Long: `seed reads a YAML file with optional "products" and "ingredients" lists.
Products are upserted by id; products without an id get a generated one.
Ingredient names already in the store are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := readSeedFile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			products := make([]domain.Product, 0, len(seed.Products))
			for _, p := range seed.Products {
				products = append(products, p.toDomain())
			}
			if err := a.Store.SaveProducts(ctx, products); err != nil {
				return fmt.Errorf("save products: %w", err)
			}

			added, err := a.Store.SaveIngredients(ctx, seed.Ingredients)
			if err != nil {
				return fmt.Errorf("save ingredients: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products and %d new ingredients\n", len(products), added)
			return nil
		},
	}
}
