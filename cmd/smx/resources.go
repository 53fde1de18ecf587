package main

import (
	"github.com/spf13/cobra"

	"github.com/Quaestor-Technologies/smx-mcp/smx"
)

func addPaginationFlags(cmd *cobra.Command, p *smx.Pagination) {
	cmd.Flags().IntVar(&p.Page, "page", 0, "page number (0 uses the API default)")
	cmd.Flags().IntVar(&p.PageSize, "page-size", 0, "items per page (0 uses the API default)")
}

// run builds the client, executes fn and prints the result as JSON.
func run(cmd *cobra.Command, fn func(client *smx.Client) (any, error)) error {
	client, errClient := newAPIClient()
	if errClient != nil {
		return errClient
	}
	defer client.Close()

	result, errFn := fn(client)
	if errFn != nil {
		return errFn
	}
	return printJSON(result)
}

func newCompaniesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List, get and search portfolio companies",
	}

	var listPage smx.Pagination
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all companies associated with the firm",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.ListCompanies(c.Context(), listPage)
			})
		},
	}
	addPaginationFlags(listCmd, &listPage)

	getCmd := &cobra.Command{
		Use:   "get <company-id>",
		Short: "Get a specific company by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.GetCompany(c.Context(), args[0])
			})
		},
	}

	var searchParams smx.SearchCompaniesParams
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search companies by name, sector or city",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.SearchCompanies(c.Context(), searchParams)
			})
		},
	}
	searchCmd.Flags().StringVar(&searchParams.NameContains, "name", "", "filter companies containing this text in their name")
	searchCmd.Flags().StringVar(&searchParams.Sector, "sector", "", "filter companies by sector")
	searchCmd.Flags().StringVar(&searchParams.City, "city", "", "filter companies by city")
	addPaginationFlags(searchCmd, &searchParams.Pagination)

	findCmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Find a company by exact name, case-insensitive",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.FindCompanyByName(c.Context(), args[0])
			})
		},
	}

	bySectorCmd := &cobra.Command{
		Use:   "by-sector <sector>",
		Short: "List all companies in a sector",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.CompaniesBySector(c.Context(), args[0])
			})
		},
	}

	cmd.AddCommand(listCmd, getCmd, searchCmd, findCmd, bySectorCmd)
	return cmd
}

func newMetricsCmd() *cobra.Command {
	var params smx.MetricsParams

	cmd := &cobra.Command{
		Use:   "metrics <company-id>",
		Short: "Get metrics for a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.GetCompanyMetrics(c.Context(), args[0], params)
			})
		},
	}
	cmd.Flags().StringVar(&params.FromDate, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.ToDate, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.Category, "category", "", "filter by metric category")
	cmd.Flags().StringVar(&params.Cadence, "cadence", "", "filter by metric cadence (daily, monthly, ...)")
	cmd.Flags().BoolVar(&params.IncludeBudgets, "include-budgets", false, "include budget metrics in results")
	addPaginationFlags(cmd, &params.Pagination)

	var optParams smx.MetricsOptionsParams
	var isStandard bool
	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "Get available metric categories and options",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if c.Flags().Changed("standard") {
				optParams.IsStandard = &isStandard
			}
			return run(c, func(client *smx.Client) (any, error) {
				return client.GetMetricsOptions(c.Context(), optParams)
			})
		},
	}
	optionsCmd.Flags().StringVar(&optParams.CategoryName, "category-name", "", "filter by category name")
	optionsCmd.Flags().BoolVar(&isStandard, "standard", false, "filter standard (true) vs custom (false) metrics")
	addPaginationFlags(optionsCmd, &optParams.Pagination)

	recentCmd := newRecentMetricsCmd()

	cmd.AddCommand(optionsCmd, recentCmd)
	return cmd
}

func newRecentMetricsCmd() *cobra.Command {
	var category string
	var limit int

	cmd := &cobra.Command{
		Use:   "recent <company-id>",
		Short: "Get the most recent metrics for a company, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.CompanyRecentMetrics(c.Context(), args[0], category, limit)
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "filter by metric category")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of metrics to return")
	return cmd
}

func newBudgetsCmd() *cobra.Command {
	var params smx.BudgetsParams

	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "List budgets associated with the firm",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.ListBudgets(c.Context(), params)
			})
		},
	}
	cmd.Flags().StringVar(&params.CompanySlug, "company-slug", "", "filter by company slug")
	cmd.Flags().StringVar(&params.CompanyID, "company-id", "", "filter by company ID")
	addPaginationFlags(cmd, &params.Pagination)
	return cmd
}

func newCustomColumnsCmd() *cobra.Command {
	var params smx.CustomColumnsParams

	cmd := &cobra.Command{
		Use:   "custom-columns",
		Short: "Get custom column data for companies",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.GetCustomColumns(c.Context(), params)
			})
		},
	}
	cmd.Flags().StringVar(&params.CompanySlug, "company-slug", "", "filter by company slug")
	cmd.Flags().StringVar(&params.CompanyID, "company-id", "", "filter by company ID")
	addPaginationFlags(cmd, &params.Pagination)

	var optPage smx.Pagination
	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "Get all custom columns and their available options",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.GetCustomColumnOptions(c.Context(), optPage)
			})
		},
	}
	addPaginationFlags(optionsCmd, &optPage)

	cmd.AddCommand(optionsCmd)
	return cmd
}

func newDocumentsCmd() *cobra.Command {
	var params smx.DocumentsParams

	cmd := &cobra.Command{
		Use:   "documents",
		Short: "List documents associated with the firm",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.ListDocuments(c.Context(), params)
			})
		},
	}
	cmd.Flags().StringVar(&params.CompanyID, "company-id", "", "filter by company ID")
	cmd.Flags().StringVar(&params.ParseState, "parse-state", "", "filter by document parse state")
	cmd.Flags().StringVar(&params.FromDate, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.ToDate, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.Source, "source", "", "filter by document source")
	addPaginationFlags(cmd, &params.Pagination)
	return cmd
}

func newFundsCmd() *cobra.Command {
	var page smx.Pagination

	cmd := &cobra.Command{
		Use:   "funds",
		Short: "List funds associated with the firm",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.ListFunds(c.Context(), page)
			})
		},
	}
	addPaginationFlags(cmd, &page)
	return cmd
}

func newRequestsCmd() *cobra.Command {
	var params smx.InformationRequestsParams

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List information requests associated with the firm",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.ListInformationRequests(c.Context(), params)
			})
		},
	}
	cmd.Flags().StringVar(&params.Name, "name", "", "filter by request name")
	addPaginationFlags(cmd, &params.Pagination)
	return cmd
}

func newReportsCmd() *cobra.Command {
	var params smx.InformationReportsParams

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List information reports associated with the firm",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.ListInformationReports(c.Context(), params)
			})
		},
	}
	cmd.Flags().StringVar(&params.CompanyID, "company-id", "", "filter by company ID")
	cmd.Flags().StringVar(&params.InformationRequestID, "request-id", "", "filter by information request ID")
	addPaginationFlags(cmd, &params.Pagination)
	return cmd
}

func newNotesCmd() *cobra.Command {
	var params smx.NotesParams

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List notes associated with a company",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.ListNotes(c.Context(), params)
			})
		},
	}
	cmd.Flags().StringVar(&params.CompanySlug, "company-slug", "", "filter by company slug")
	cmd.Flags().StringVar(&params.CompanyID, "company-id", "", "filter by company ID")
	cmd.Flags().StringVar(&params.SortBy, "sort-by", "", "sort notes by field")
	addPaginationFlags(cmd, &params.Pagination)

	summaryCmd := &cobra.Command{
		Use:   "summary <company-id>",
		Short: "Summarize the notes attached to a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.CompanyNotesSummary(c.Context(), args[0])
			})
		},
	}

	cmd.AddCommand(summaryCmd)
	return cmd
}

func newUsersCmd() *cobra.Command {
	var params smx.UsersParams

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users associated with the firm",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, func(client *smx.Client) (any, error) {
				return client.ListUsers(c.Context(), params)
			})
		},
	}
	cmd.Flags().StringVar(&params.Email, "email", "", "filter by user email")
	addPaginationFlags(cmd, &params.Pagination)
	return cmd
}
