// Package main implements the smx command, a CLI over the Standard
// Metrics portfolio API.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Quaestor-Technologies/smx-mcp/auth"
	"github.com/Quaestor-Technologies/smx-mcp/cache"
	"github.com/Quaestor-Technologies/smx-mcp/config"
	"github.com/Quaestor-Technologies/smx-mcp/smx"
)

var (
	configPath     string
	debug          bool
	tokenCacheSpec string
	timeoutSeconds float64

	osExit = os.Exit // For testing purposes
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smx",
		Short: "Query the Standard Metrics portfolio API",
		Long: `Query the Standard Metrics portfolio API.
Credentials come from SMX_CLIENT_ID and SMX_CLIENT_SECRET (or a config file).
Results print as indented JSON on stdout.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&tokenCacheSpec, "token-cache", "", "token cache spec\n'file:<path>' means filecache (example: file:/tmp/smx-token.json)\nredis format: 'redis:<host>:<port>:<password>:<key>'\nempty means in-memory")
	rootCmd.PersistentFlags().Float64Var(&timeoutSeconds, "timeout", 0, "request timeout in seconds (0 uses REQUEST_TIMEOUT or the 30s default)")

	rootCmd.AddCommand(
		newTokenCmd(),
		newCompaniesCmd(),
		newMetricsCmd(),
		newBudgetsCmd(),
		newCustomColumnsCmd(),
		newDocumentsCmd(),
		newFundsCmd(),
		newRequestsCmd(),
		newReportsCmd(),
		newNotesCmd(),
		newUsersCmd(),
		newPortfolioCmd(),
		newPerformanceCmd(),
		newSummaryCmd(),
		newRawCmd(),
	)

	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return nil, errLoad
	}
	if tokenCacheSpec != "" {
		cfg.TokenCache = tokenCacheSpec
	}
	if timeoutSeconds != 0 {
		cfg.TimeoutSeconds = timeoutSeconds
		cfg.Timeout = time.Duration(timeoutSeconds * float64(time.Second))
	}
	cfg.Debug = cfg.Debug || debug
	return cfg, nil
}

func newTokenManager(cfg *config.Config) (*auth.Manager, error) {
	tokenCache, errCache := cache.New(cfg.TokenCache, cfg.TokenURL, cfg.ClientID)
	if errCache != nil {
		return nil, fmt.Errorf("token cache: %s: %w", cfg.TokenCache, errCache)
	}
	return auth.New(auth.Options{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		HTTPClient:   &http.Client{Timeout: cfg.Timeout},
		Cache:        tokenCache,
		Debug:        cfg.Debug,
	}), nil
}

func newAPIClient() (*smx.Client, error) {
	cfg, errCfg := loadConfig()
	if errCfg != nil {
		return nil, errCfg
	}
	return smx.NewFromConfig(cfg)
}

func printJSON(v any) error {
	buf, errJSON := json.MarshalIndent(v, "", "  ")
	if errJSON != nil {
		return errJSON
	}
	fmt.Println(string(buf))
	return nil
}

func newTokenCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Acquire and print an access token",
		Long: `Acquire and print an access token.
With --clear, the cached token is discarded first, forcing a fresh exchange.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, errCfg := loadConfig()
			if errCfg != nil {
				return errCfg
			}
			manager, errManager := newTokenManager(cfg)
			if errManager != nil {
				return errManager
			}
			if clear {
				if errClear := manager.ClearTokenCache(); errClear != nil {
					return errClear
				}
			}
			tok, errTok := manager.GetAccessToken(cmd.Context())
			if errTok != nil {
				return errTok
			}
			fmt.Println(tok)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "discard the cached token before acquiring")
	return cmd
}
