package cmd

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app, err := wireApp()
	return newRootCmdWithApp(app, err)
}

func newRootCmdWithApp(app *app, wireErr error) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "unreadwidget",
		Short:         "Unread mail widgets for the terminal",
		Long:          "unreadwidget keeps a local copy of your IMAP folders' message flags and shows unread counts for the unified inbox, an account or a single folder.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	if wireErr != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return wireErr
		}
		return rootCmd
	}

	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.close()
	}

	rootCmd.AddCommand(
		newConfigCmd(app),
		newAccountCmd(app),
		newFolderCmd(app),
		newWidgetCmd(app),
		newSyncCmd(app),
	)

	return rootCmd
}
