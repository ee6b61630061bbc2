package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/convocatorias/portal/internal/app/console"
	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/app/services"
	"github.com/convocatorias/portal/internal/bootstrap"
	"github.com/convocatorias/portal/internal/pkg/store"
)

func newConsoleCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Run console screen actions against the configured storage",
	}
	cmd.AddCommand(
		newConsoleCallCommand(configPath),
		newConsoleListCommand(configPath),
		newConsoleRemoveCommand(configPath),
	)
	return cmd
}

func newConsoleCallCommand(configPath *string) *cobra.Command {
	var tab string

	cmd := &cobra.Command{
		Use:   "call <id>",
		Short: "Print the detail tabs of a call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd.Context(), *configPath, func(deps *bootstrap.Dependencies, _ zerolog.Logger) error {
				view, err := console.OpenDetail(deps.CallService, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if tab == "" {
					detail := view.Detail()
					fmt.Fprintf(out, "%s (%s)\n", detail.Call.Title, detail.InstitutionName)
					for _, t := range view.Tabs() {
						fmt.Fprintf(out, "\n[%s] %s\n%s\n", t.Key, t.Title, t.Content)
					}
					return nil
				}

				if err := view.SetTab(tab); err != nil {
					return err
				}
				active := view.ActiveTab()
				fmt.Fprintf(out, "[%s] %s\n%s\n", active.Key, active.Title, active.Content)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "", "print only this tab")
	return cmd
}

func newConsoleListCommand(configPath *string) *cobra.Command {
	var term string

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Print the records a list screen shows for a search term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd.Context(), *configPath, func(deps *bootstrap.Dependencies, lgr zerolog.Logger) error {
				screen, err := newScreen(deps, args[0], lgr)
				if err != nil {
					return err
				}
				return screen.list(cmd.OutOrStdout(), term)
			})
		},
	}
	cmd.Flags().StringVar(&term, "q", "", "search term")
	return cmd
}

func newConsoleRemoveCommand(configPath *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <resource> <id>",
		Short: "Delete a record through the confirmation dialog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd.Context(), *configPath, func(deps *bootstrap.Dependencies, lgr zerolog.Logger) error {
				screen, err := newScreen(deps, args[0], lgr)
				if err != nil {
					return err
				}
				return screen.remove(cmd.Context(), cmd.OutOrStdout(), args[1], yes)
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion; without it the request is cancelled")
	return cmd
}

// withDependencies builds the application over the configured storage, runs
// fn and releases everything again.
func withDependencies(ctx context.Context, configPath string, fn func(*bootstrap.Dependencies, zerolog.Logger) error) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, database, lgr)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	deps.Start(runCtx)
	defer func() {
		cancel()
		deps.Stop(context.Background())
	}()

	return fn(deps, lgr)
}

type screenActions interface {
	list(w io.Writer, term string) error
	remove(ctx context.Context, w io.Writer, id string, confirm bool) error
}

type screenRunner[T store.Entity[T]] struct {
	screen  *console.Screen[T]
	present func(T) interface{}
}

func runnerFor[T store.Entity[T]](catalog *services.CatalogService[T], lgr zerolog.Logger) screenActions {
	return &screenRunner[T]{
		screen:  console.NewScreen(catalog, lgr),
		present: func(item T) interface{} { return item },
	}
}

func newScreen(deps *bootstrap.Dependencies, resource string, lgr zerolog.Logger) (screenActions, error) {
	s, c := deps.Stores, deps.Confirmations
	switch resource {
	case models.ResourceCalls:
		return runnerFor(services.NewCatalogService(s.Calls, c, lgr), lgr), nil
	case models.ResourceCallHistory:
		return runnerFor(services.NewCatalogService(s.CallHistory, c, lgr), lgr), nil
	case models.ResourceCompanies:
		return runnerFor(services.NewCatalogService(s.Companies, c, lgr), lgr), nil
	case models.ResourceUsers:
		return &screenRunner[models.User]{
			screen:  console.NewScreen(services.NewUserCatalog(s.Users, c, lgr), lgr),
			present: func(u models.User) interface{} { return u.Redacted() },
		}, nil
	case models.ResourceCities:
		return runnerFor(services.NewCatalogService(s.Cities, c, lgr), lgr), nil
	case models.ResourceDepartments:
		return runnerFor(services.NewCatalogService(s.Departments, c, lgr), lgr), nil
	case models.ResourceInterests:
		return runnerFor(services.NewCatalogService(s.Interests, c, lgr), lgr), nil
	case models.ResourceRequirements:
		return runnerFor(services.NewCatalogService(s.Requirements, c, lgr), lgr), nil
	case models.ResourceRoles:
		return runnerFor(services.NewCatalogService(s.Roles, c, lgr), lgr), nil
	case models.ResourceLines:
		return runnerFor(services.NewCatalogService(s.Lines, c, lgr), lgr), nil
	case models.ResourceTargetAudiences:
		return runnerFor(services.NewCatalogService(s.TargetAudiences, c, lgr), lgr), nil
	case models.ResourceInstitutions:
		return runnerFor(services.NewCatalogService(s.Institutions, c, lgr), lgr), nil
	case models.ResourceTypes:
		return runnerFor(services.NewCatalogService(s.Types, c, lgr), lgr), nil
	case models.ResourceChecks:
		return runnerFor(services.NewCatalogService(s.Checks, c, lgr), lgr), nil
	}
	return nil, fmt.Errorf("unknown resource %q", resource)
}

func (r *screenRunner[T]) list(w io.Writer, term string) error {
	r.screen.SetSearch(term)
	items := r.screen.Items()
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, r.present(item))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (r *screenRunner[T]) remove(ctx context.Context, w io.Writer, id string, confirm bool) error {
	if err := r.screen.RequestRemove(id); err != nil {
		return err
	}
	if _, ok := r.screen.Pending(); !ok {
		fmt.Fprintf(w, "%s %s not found, nothing to remove\n", r.screen.Resource(), id)
		return nil
	}
	if d := r.screen.Dialog(); d != nil {
		fmt.Fprintf(w, "%s %s\n", d.Title, d.Message)
	}

	resolve := r.screen.Cancel
	if confirm {
		resolve = r.screen.Confirm
	}
	outcome, err := resolve(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s: %s\n", r.screen.Resource(), id, outcome)
	return nil
}
