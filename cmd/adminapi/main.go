package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"adminapi/internal/config"
	"adminapi/internal/logging"
	"adminapi/internal/timeutil"
)

// @title Admin API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "adminapi",
		Short:        "Admin backend for users, departments, roles and menus",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if configFile != "" {
				return os.Setenv("ADMINAPI_CONFIG", configFile)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file (default ./adminapi.yaml)")

	cmd.AddCommand(serveCmd(), migrateCmd(), seedCmd())
	return cmd
}

// setup loads configuration and applies the timezone and log settings
// every command shares.
func setup() (*config.AppConfig, *timeutil.TimeZone, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fail("config_load_failed", err)
	}
	tz, err := timeutil.New(cfg.Timezone, cfg.DatetimeFormat)
	if err != nil {
		return nil, nil, err
	}
	timeutil.SetDefault(tz)
	logging.Configure(os.Stdout, tz.Location(), cfg.LogLevel)
	return cfg, tz, nil
}

func fail(event string, err error) error {
	logging.L.Error(event, "err", err)
	return fmt.Errorf("%s: %w", event, err)
}
