package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waitlist/modules/waitlist"
	"github.com/dmitrymomot/waitlist/pkg/config"
	"github.com/dmitrymomot/waitlist/pkg/httpserver"
	"github.com/dmitrymomot/waitlist/pkg/logger"
	"github.com/dmitrymomot/waitlist/pkg/redis"
)

const envPrefix = "WAITLIST_"

// appConfig is everything the binary reads from WAITLIST_* variables.
type appConfig struct {
	Waitlist waitlist.Config
	HTTP     httpserver.Config
	Redis    redis.Config
	Log      logger.Config
}

func loadConfig() (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg, config.WithPrefix(envPrefix)); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:   "waitlist",
		Short: "Guest and host waitlist submission relay",
		Long: `waitlist accepts guest and host waitlist submissions, rate-limits them per
e-mail address, sanitizes the free-text fields and forwards them to a
spreadsheet-script endpoint with a hard timeout.

Configuration is read from WAITLIST_* environment variables and an optional
.env file.

Examples:
  waitlist serve                                # Run the HTTP relay
  waitlist submit --type guest --name "Meena" \
    --email meena@example.com --phone 9847012345 --location Wayanad`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if len(envFiles) == 0 {
				return nil
			}
			return config.LoadEnv(envFiles...)
		},
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil,
		"Additional .env files to load before reading configuration")

	root.AddCommand(newServeCmd(), newSubmitCmd())
	return root
}
