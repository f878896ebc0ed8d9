package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/nhle/unread-widget/internal/folders"
	"github.com/nhle/unread-widget/internal/store"
)

func newFolderCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Inspect synced folders",
	}

	cmd.AddCommand(newFolderListCmd(app))

	return cmd
}

func newFolderListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <account-uuid>",
		Short: "List the folders of an account with their unread counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			account, err := app.store.GetAccount(ctx, args[0])
			if err != nil {
				return err
			}

			list, err := app.store.GetFolders(ctx, account.UUID)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.Style().Options.DrawBorder = false
			t.Style().Options.SeparateColumns = false
			t.SetTitle(account.DisplayName())

			t.AppendHeader(table.Row{"ID", "Folder", "Type", "Unread", "Starred"})

			formatter := folders.NewNameFormatter(app.labels, account)
			var totalUnread int
			for _, f := range list {
				folderID := f.ID
				c, err := app.store.CountMessages(ctx, store.CountFilter{
					AccountUUID: &account.UUID,
					FolderID:    &folderID,
				})
				if err != nil {
					return err
				}
				totalUnread += c.Unread

				t.AppendRow(table.Row{f.ID, formatter.DisplayName(f), string(f.Type), c.Unread, c.Starred})
			}

			t.AppendFooter(table.Row{
				"",
				text.Bold.Sprint(fmt.Sprintf("total folders %d", len(list))),
				"",
				text.Bold.Sprintf("%d", totalUnread),
				"",
			})

			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
				{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
				{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
				{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
				{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignCenter},
			})

			t.Render()
			return nil
		},
	}
}
