package main

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Quaestor-Technologies/smx-mcp/smx"
)

func newPortfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Get a portfolio summary of companies, funds and key metrics",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.PortfolioSummary(c.Context())
			})
		},
	}
}

func newPerformanceCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "performance <company-id>",
		Short: "Get comprehensive performance data for a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.CompanyPerformance(c.Context(), args[0], months)
			})
		},
	}
	cmd.Flags().IntVar(&months, "months", 12, "months of historical data to include")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "summary <company-id>",
		Short: "Get a financial summary for a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.CompanyFinancialSummary(c.Context(), args[0], months)
			})
		},
	}
	cmd.Flags().IntVar(&months, "months", 12, "months of historical data to include")
	return cmd
}

func newRawCmd() *cobra.Command {
	var count int
	var concurrent bool

	cmd := &cobra.Command{
		Use:   "raw <path>",
		Short: "Issue a raw authenticated GET against an API path",
		Long: `Issue a raw authenticated GET against an API path, e.g. /v1/companies/.
With --count and --concurrent, the same request is fired repeatedly, which
exercises the token manager's single-flight refresh under load.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			client, errClient := newAPIClient()
			if errClient != nil {
				return errClient
			}
			defer client.Close()

			send := func(i int) error {
				body, errGet := client.Get(c.Context(), args[0], url.Values{})
				if errGet != nil {
					return fmt.Errorf("request %d/%d: %w", i, count, errGet)
				}
				fmt.Println(string(body))
				return nil
			}

			if !concurrent {
				for i := 1; i <= count; i++ {
					if err := send(i); err != nil {
						return err
					}
				}
				return nil
			}

			errs := make([]error, count)
			var wg sync.WaitGroup
			for i := 1; i <= count; i++ {
				wg.Add(1)
				go func(j int) {
					errs[j-1] = send(j)
					wg.Done()
				}(i)
			}
			wg.Wait()
			for _, err := range errs {
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "how many requests to send")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "send requests concurrently")
	return cmd
}
