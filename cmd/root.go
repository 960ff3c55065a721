package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"brecha/internal/app"
	"brecha/internal/config"
	"brecha/internal/logging"

	"github.com/spf13/cobra"
)

// catalogOnly marks commands that must work without LLM credentials.
const catalogOnly = "catalog-only"

var rootCmd = &cobra.Command{
	Use:           "brecha",
	Short:         "Brecha AI Service",
	Long:          `Brecha classifies public infrastructure project titles into service-gap categories using a language model.`,
	Version:       app.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "brecha" {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
			return err
		}

		var appInstance *app.App
		if cmd.Annotations[catalogOnly] == "true" {
			if err := cfg.ValidateBase(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			appInstance, err = app.NewCatalogApp(cmd.Context(), cfg)
		} else {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			appInstance, err = app.NewApp(cmd.Context(), cfg)
		}
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store the app instance in the command's context
		cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			return appInstance.Close()
		}
		return nil
	},
}

// Execute runs the CLI with os.Args and exits non-zero on failure.
func Execute() {
	if err := Run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Run executes the CLI with explicit arguments and output.
func Run(ctx context.Context, args []string, out io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	// Subcommands keep the context of a previous run otherwise.
	for _, c := range rootCmd.Commands() {
		c.SetContext(ctx)
	}
	return rootCmd.ExecuteContext(ctx)
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:         "doctor",
	Short:       "Check configuration and catalog without calling the model",
	Annotations: map[string]string{catalogOnly: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}
		out := cmd.OutOrStdout()
		cfg := appInstance.Config

		fmt.Fprintf(out, "Catalog: %d categories from %s\n", appInstance.Catalog.Len(), appInstance.Catalog.Source())
		fmt.Fprintf(out, "Provider: %s (model %q)\n", cfg.LLM.Provider, cfg.LLM.ModelName)
		fmt.Fprintf(out, "Retries: %d attempts, %s between attempts\n", cfg.LLM.MaxRetries, cfg.RetryDelay())
		if _, ok := cfg.PricingFor(cfg.LLM.ModelName); !ok {
			fmt.Fprintf(out, "Pricing: none configured for %q, cost will be reported as $0\n", cfg.LLM.ModelName)
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration is not ready to classify: %w", err)
		}
		fmt.Fprintln(out, "Configuration OK.")
		return nil
	},
}
