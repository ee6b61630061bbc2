package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/bootstrap"
	"github.com/convocatorias/portal/internal/config"
	"github.com/convocatorias/portal/internal/pkg/apiclient"
	"github.com/convocatorias/portal/internal/pkg/logger"
	"github.com/convocatorias/portal/internal/server"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "convocatorias",
		Short:         "Convocatorias catalog API and console backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", filepath.Join("configs", "config.yaml"), "path to the YAML configuration file")

	root.AddCommand(
		newServeCommand(&configPath),
		newMigrateCommand(&configPath),
		newFetchCommand(),
		newConsoleCommand(&configPath),
	)
	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := server.NewServer(cmd.Context(), *configPath)
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}
			if err := srv.Run(); err != nil {
				return err
			}
			logger.Info().Msg("Application finished gracefully.")
			return nil
		},
	}
}

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.StoragePostgres {
				return fmt.Errorf("migrate needs the %s storage driver, got %s", config.StoragePostgres, cfg.Storage.Driver)
			}

			// SetupDatabase migrates as part of connecting
			database, err := bootstrap.SetupDatabase(cmd.Context(), cfg, lgr)
			if err != nil {
				return err
			}
			database.Close()
			return nil
		},
	}
}

func newFetchCommand() *cobra.Command {
	var (
		baseURL  string
		resource string
		term     string
		email    string
		password string
		typed    bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "List a resource from a running API and print it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client := apiclient.New(baseURL)
			if email != "" {
				auth, err := client.Login(ctx, email, password)
				if err != nil {
					return fmt.Errorf("login failed: %w", err)
				}
				client.SetToken(auth.Token.AccessToken)
			}

			var (
				items interface{}
				err   error
			)
			if typed {
				items, err = listTyped(ctx, client, resource, term)
			} else {
				items, err = client.Raw(ctx, resource, term)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&baseURL, "base-url", "http://localhost:8080/api/v1", "API base URL")
	flags.StringVar(&resource, "resource", "calls", "resource to list")
	flags.StringVar(&term, "q", "", "search term")
	flags.StringVar(&email, "email", "", "log in with this email before fetching")
	flags.StringVar(&password, "password", "", "password for --email")
	flags.BoolVar(&typed, "typed", false, "decode records into their models; malformed records yield an empty list")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	return cmd
}

// listTyped lists resource through its typed accessor
func listTyped(ctx context.Context, c *apiclient.Client, resource, term string) (interface{}, error) {
	switch resource {
	case models.ResourceCalls:
		return c.Calls().List(ctx, term)
	case models.ResourceCallHistory:
		return c.CallHistory().List(ctx, term)
	case models.ResourceCompanies:
		return c.Companies().List(ctx, term)
	case models.ResourceUsers:
		return c.Users().List(ctx, term)
	case models.ResourceCities:
		return c.Cities().List(ctx, term)
	case models.ResourceDepartments:
		return c.Departments().List(ctx, term)
	case models.ResourceInterests:
		return c.Interests().List(ctx, term)
	case models.ResourceRequirements:
		return c.Requirements().List(ctx, term)
	case models.ResourceRoles:
		return c.Roles().List(ctx, term)
	case models.ResourceLines:
		return c.Lines().List(ctx, term)
	case models.ResourceTargetAudiences:
		return c.TargetAudiences().List(ctx, term)
	case models.ResourceInstitutions:
		return c.Institutions().List(ctx, term)
	case models.ResourceTypes:
		return c.Types().List(ctx, term)
	case models.ResourceChecks:
		return c.Checks().List(ctx, term)
	}
	return nil, fmt.Errorf("no typed accessor for %q", resource)
}
