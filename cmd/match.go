package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/review-matcher/internal/ai"
	"github.com/spigell/review-matcher/internal/metrics"
	"github.com/spigell/review-matcher/internal/soco"
)

const (
	productsPageSize = 20

	PromptNextPage = "Next page"
	PromptExit     = "Exit"
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Compute the matching percentage of a product for a user",
	Long: "Compute the matching percentage of a product for a user.\n" +
		"Without --product-id a product is picked interactively from the catalog.\n" +
		"Without --user-id the score is derived from star ratings only.",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Int64P("product-id", "i", 0, "product to score. Default is an interactive picker.")
	matchCmd.Flags().StringP("user-id", "u", "", "user whose beauty profile is matched")
	matchCmd.Flags().BoolP("summary", "s", false, "also print an llm summary of the reviews")
}

func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	productID, _ := cmd.Flags().GetInt64("product-id")
	userID, _ := cmd.Flags().GetString("user-id")
	withSummary, _ := cmd.Flags().GetBool("summary")

	// a private registry keeps one-shot runs off the global default
	svc := newService(ctx, config, metrics.New(prometheus.NewRegistry()), logger)

	product := ai.Product{}
	if productID == 0 {
		picked, err := pickProduct(func(skip int) []*soco.Product {
			return svc.Products(ctx, skip, productsPageSize)
		})
		if err != nil {
			if errors.Is(err, errExit) {
				logger.Info("exiting", zap.String("reason", "no product picked"))
				return
			}
			logger.Fatal("picking a product", zap.Error(err))
		}

		productID, err = strconv.ParseInt(picked.ID, 10, 64)
		if err != nil {
			logger.Fatal("invalid product id", zap.String("id", picked.ID), zap.Error(err))
		}
		product = ai.Product{Name: picked.Name, Brand: picked.Brand, Category: picked.Category}
	}

	result := svc.Match(ctx, productID, userID)

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))

	if !withSummary {
		return
	}

	summary, err := svc.Summarize(ctx, productID, product)
	if err != nil {
		logger.Fatal("summarizing reviews", zap.Error(err))
	}

	fmt.Println(summary.Text)
}

// pickProduct pages through the catalog until a product is chosen.
func pickProduct(page func(skip int) []*soco.Product) (*soco.Product, error) {
	skip := 0
	for {
		products := page(skip)
		if len(products) == 0 {
			return nil, errors.New("no products available")
		}

		items := make([]string, 0, len(products)+2)
		for _, p := range products {
			items = append(items, productLabel(p))
		}

		prompt := promptui.Select{
			Label: "Choose a product and press ENTER",
			Items: append(items, PromptNextPage, PromptExit),
			Size:  10,
		}

		idx, _, err := prompt.Run()
		if err != nil {
			return nil, err
		}

		switch idx {
		case len(products):
			skip += len(products)
		case len(products) + 1:
			return nil, errExit
		default:
			return products[idx], nil
		}
	}
}

func productLabel(p *soco.Product) string {
	return strings.Join([]string{p.ID, p.Name, "/", p.Brand, "/", p.Category}, " ")
}
