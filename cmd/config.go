package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/unread-widget/internal/model"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration file",
	}

	cmd.AddCommand(
		newConfigShowCmd(app),
		newConfigInitCmd(app),
	)

	return cmd
}

func newConfigShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "config\t%s\n", app.cfgPath)
			_, _ = fmt.Fprintf(out, "database.path\t%s\n", app.cfg.Database.Path)
			_, _ = fmt.Fprintf(out, "display.locale\t%s (%s)\n", app.cfg.Display.Locale, app.labels.Language())
			_, _ = fmt.Fprintf(out, "sync.poll_interval_sec\t%d\n", app.cfg.Sync.PollIntervalSec)
			_, _ = fmt.Fprintf(out, "sync.fetch_timeout_sec\t%d\n", app.cfg.Sync.FetchTimeoutSec)
			return nil
		},
	}
}

func newConfigInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				_, err := os.Stat(app.cfgPath)
				if err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", app.cfgPath)
				}
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			if err := model.SaveConfig(app.cfgPath, app.cfg); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", app.cfgPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
