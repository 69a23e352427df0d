package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/pricing"
	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	var (
		serviceType string
		words       int
		turnaround  string
		currency    string
		pricingFile string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a job without storing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := pricing.LoadTable(pricingFile)
			if err != nil {
				return err
			}
			calculator := pricing.NewCalculator(table)

			service := models.ServiceType(serviceType)
			speed := models.Turnaround(turnaround)
			cur := models.Currency(currency)
			if err = calculator.Validate(service, words, speed, cur); err != nil {
				return err
			}

			breakdown := calculator.Calculate(service, words, speed, cur, time.Now())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(breakdown)
			}

			fmt.Fprint(cmd.OutOrStdout(), renderBreakdown(service, speed, breakdown))
			return nil
		},
	}

	cmd.Flags().StringVarP(&serviceType, "service", "s", string(models.ServiceProofreading), "service type")
	cmd.Flags().IntVarP(&words, "words", "w", 0, "word count")
	cmd.Flags().StringVarP(&turnaround, "turnaround", "t", string(models.Turnaround72h), "turnaround")
	cmd.Flags().StringVarP(&currency, "currency", "c", string(models.BaseCurrency), "currency")
	cmd.Flags().StringVar(&pricingFile, "pricing-file", "", "pricing table yaml file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the breakdown as JSON")
	return cmd
}
