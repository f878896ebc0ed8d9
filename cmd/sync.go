package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/source"
	syncer "github.com/nhle/unread-widget/internal/sync"
)

func newSyncCmd(app *app) *cobra.Command {
	var (
		accountUUID string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch folder lists and message flags from the IMAP servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := syncTargets(cmd.Context(), app, accountUUID)
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no IMAP accounts configured")
				return nil
			}

			if watch {
				return watchAccounts(cmd, app, accounts)
			}
			return syncOnce(cmd, app, accounts)
		},
	}

	cmd.Flags().StringVar(&accountUUID, "account", "", "Only sync this account")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep syncing every poll interval until interrupted")

	return cmd
}

// syncTargets returns the IMAP accounts to sync.
func syncTargets(ctx context.Context, app *app, accountUUID string) ([]model.Account, error) {
	if accountUUID != "" {
		account, err := app.store.GetAccount(ctx, accountUUID)
		if err != nil {
			return nil, err
		}
		return []model.Account{account}, nil
	}

	all, err := app.store.GetAccounts(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]model.Account, 0, len(all))
	for _, a := range all {
		if a.Protocol == model.ProtocolIMAP {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func syncOnce(cmd *cobra.Command, app *app, accounts []model.Account) error {
	var failed int
	for _, account := range accounts {
		var result *source.SyncResult
		label := fmt.Sprintf("Syncing %s...", account.DisplayName())

		err := runSyncSpinner(cmd.Context(), cmd.ErrOrStderr(), label, func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, app.fetchTimeout())
			defer cancel()

			var err error
			result, err = app.syncer.SyncAccount(ctx, account)
			return err
		})
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", account.DisplayName(), err)
			continue
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d folders\t%d unread\n",
			account.DisplayName(), result.Folders, result.Unread)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d accounts failed to sync", failed, len(accounts))
	}
	return nil
}

func watchAccounts(cmd *cobra.Command, app *app, accounts []model.Account) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := syncer.New(app.syncer, syncer.Options{
		PollInterval: app.pollInterval(),
		FetchTimeout: app.fetchTimeout(),
	})
	for _, account := range accounts {
		p.RegisterAccount(account)
	}

	p.Start()
	defer p.Stop()

	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.UUID] = a.DisplayName()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-p.Results():
			if !ok {
				return nil
			}
			switch {
			case r.AuthError != nil:
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), r.AuthError.Message)
			case r.Error != nil:
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", names[r.AccountUUID], r.Error)
			default:
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d unread\t+%d new\n",
					names[r.AccountUUID], r.Sync.Unread, r.NewUnread)
			}
		}
	}
}
