package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pettracker/pet/internal/app"
	"github.com/pettracker/pet/internal/config"
	"github.com/pettracker/pet/internal/utils"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the pet command tree. Without a subcommand it serves the HTTP API.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pet",
		Short:         "Personal expense tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Path to the YAML configuration file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the HTTP API",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or upgrade the configured store schema",
			RunE:  runMigrate,
		},
		newDashboardCommand(),
		newReportCommand(),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}

func loadConfig(cmd *cobra.Command) (config.Application, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(ctx, cfg)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	_, closeStore, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Store %s is up to date\n", cfg.Store.Type)
	return closeStore()
}

// withDependencies runs fn against the configured store without the broker and export integrations.
func withDependencies(cmd *cobra.Command, fn func(ctx context.Context, deps *app.Dependencies) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, closeStore, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(cmd.Context(), app.NewDependencies(s, utils.SystemClock{}, nil))
}
