package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/unread-widget/internal/folders"
	"github.com/nhle/unread-widget/internal/i18n"
	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/render"
)

// widgetJSON is the --json output of widget show.
type widgetJSON struct {
	model.UnreadWidgetData
	Available bool `json:"available"`
}

func newWidgetCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widget",
		Short: "Configure and display unread widgets",
	}

	cmd.AddCommand(
		newWidgetConfigureCmd(app),
		newWidgetShowCmd(app),
		newWidgetListCmd(app),
		newWidgetRemoveCmd(app),
	)

	return cmd
}

func newWidgetConfigureCmd(app *app) *cobra.Command {
	var (
		appWidgetID int
		accountUUID string
		folderID    int64
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Bind a widget to the unified inbox, an account or a folder",
		Long:  "Bind a widget to the unified inbox (--account unified_inbox), an account or one of its folders. Missing flags are asked for interactively.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !cmd.Flags().Changed("id") {
				next, err := nextWidgetID(ctx, app)
				if err != nil {
					return err
				}
				appWidgetID = next
			}

			if accountUUID == "" {
				if err := selectAccount(ctx, app, &accountUUID); err != nil {
					return err
				}
				if accountUUID != model.UnifiedInboxAccountUUID && !cmd.Flags().Changed("folder") {
					if err := selectFolder(ctx, app, accountUUID, &folderID); err != nil {
						return err
					}
				}
			}

			cfg := model.WidgetConfiguration{AppWidgetID: appWidgetID, AccountUUID: accountUUID}
			if folderID > 0 && !cfg.IsUnifiedInbox() {
				id := folderID
				cfg.FolderID = &id
			}

			if err := validateBinding(ctx, app, cfg); err != nil {
				return err
			}
			if err := app.store.SaveWidgetConfiguration(ctx, cfg); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "configured widget %d\n", appWidgetID)
			return nil
		},
	}

	cmd.Flags().IntVar(&appWidgetID, "id", 0, "Widget id (defaults to the next free id)")
	cmd.Flags().StringVar(&accountUUID, "account", "", "Account UUID, or unified_inbox")
	cmd.Flags().Int64Var(&folderID, "folder", 0, "Folder id (omit for the whole account)")

	return cmd
}

func nextWidgetID(ctx context.Context, app *app) (int, error) {
	configs, err := app.store.GetWidgetConfigurations(ctx)
	if err != nil {
		return 0, fmt.Errorf("list widgets for id assignment: %w", err)
	}

	next := 1
	for _, c := range configs {
		if c.AppWidgetID >= next {
			next = c.AppWidgetID + 1
		}
	}
	return next, nil
}

// validateBinding rejects bindings to accounts or folders that do not exist
// at configuration time. They may still disappear later.
func validateBinding(ctx context.Context, app *app, cfg model.WidgetConfiguration) error {
	if cfg.IsUnifiedInbox() {
		return nil
	}

	account, err := app.store.GetAccount(ctx, cfg.AccountUUID)
	if err != nil {
		return err
	}
	if cfg.FolderID == nil {
		return nil
	}
	_, err = app.store.GetFolder(ctx, account.UUID, *cfg.FolderID)
	return err
}

func selectAccount(ctx context.Context, app *app, accountUUID *string) error {
	accounts, err := app.store.GetAccounts(ctx)
	if err != nil {
		return err
	}

	options := []huh.Option[string]{
		huh.NewOption(app.labels.Get(i18n.UnifiedInbox), model.UnifiedInboxAccountUUID),
	}
	for _, a := range accounts {
		options = append(options, huh.NewOption(a.DisplayName(), a.UUID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Description("What should the widget count?").
				Options(options...).
				Value(accountUUID),
		),
	).Run()
}

func selectFolder(ctx context.Context, app *app, accountUUID string, folderID *int64) error {
	account, err := app.store.GetAccount(ctx, accountUUID)
	if err != nil {
		return err
	}
	list, err := app.store.GetFolders(ctx, accountUUID)
	if err != nil {
		return err
	}

	formatter := folders.NewNameFormatter(app.labels, account)
	options := []huh.Option[int64]{huh.NewOption("Whole account", int64(0))}
	for _, f := range list {
		options = append(options, huh.NewOption(formatter.DisplayName(f), f.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Folder").
				Options(options...).
				Value(folderID),
		),
	).Run()
}

func newWidgetShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Resolve a widget and print its title and unread count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appWidgetID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid widget id %q", args[0])
			}

			data, ok, err := resolveWidget(cmd.Context(), app, appWidgetID)
			if err != nil {
				return err
			}

			if asJSON {
				out := widgetJSON{UnreadWidgetData: data, Available: ok}
				out.AppWidgetID = appWidgetID
				payload, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
				return nil
			}

			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Placeholder(appWidgetID))
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Widget(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the resolved data as JSON")

	return cmd
}

// resolveWidget loads the binding of a widget and resolves it. An
// unconfigured widget resolves as absent.
func resolveWidget(ctx context.Context, app *app, appWidgetID int) (model.UnreadWidgetData, bool, error) {
	cfg, err := app.store.GetWidgetConfiguration(ctx, appWidgetID)
	if errors.Is(err, model.ErrWidgetNotFound) {
		return model.UnreadWidgetData{}, false, nil
	}
	if err != nil {
		return model.UnreadWidgetData{}, false, err
	}
	return app.resolver.LoadUnreadWidgetData(ctx, cfg)
}

func newWidgetListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Resolve every configured widget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			configs, err := app.store.GetWidgetConfigurations(ctx)
			if err != nil {
				return err
			}

			for _, cfg := range configs {
				data, ok, err := app.resolver.LoadUnreadWidgetData(ctx, cfg)
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t-\t(unavailable: %s)\n", cfg.AppWidgetID, cfg.AccountUUID)
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n",
					data.AppWidgetID, render.BadgeText(data.UnreadCount), data.Title)
			}

			return nil
		},
	}
}

func newWidgetRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a widget configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appWidgetID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid widget id %q", args[0])
			}

			if err := app.store.DeleteWidgetConfiguration(cmd.Context(), appWidgetID); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed widget %d\n", appWidgetID)
			return nil
		},
	}
}
