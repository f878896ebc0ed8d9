package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/unread-widget/internal/credential"
	"github.com/nhle/unread-widget/internal/model"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage mail accounts",
	}

	cmd.AddCommand(
		newAccountAddCmd(app),
		newAccountListCmd(app),
		newAccountRemoveCmd(app),
	)

	return cmd
}

func newAccountAddCmd(app *app) *cobra.Command {
	var (
		account  model.Account
		password string
		noTLS    bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an IMAP account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if account.IMAPUsername == "" {
				account.IMAPUsername = account.Email
			}
			account.IMAPTLS = !noTLS
			account.Protocol = model.ProtocolIMAP

			if password == "" {
				if err := promptPassword(account.Email, &password); err != nil {
					return err
				}
			}

			created, err := app.store.CreateAccount(cmd.Context(), account)
			if err != nil {
				return err
			}

			if err := app.secrets.Set(credential.IMAPPasswordKey(created.UUID), password); err != nil {
				_ = app.store.DeleteAccount(cmd.Context(), created.UUID)
				return fmt.Errorf("store password: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", created.UUID, created.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&account.Name, "name", "", "Label shown on widgets (defaults to the email address)")
	cmd.Flags().StringVar(&account.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&account.IMAPHost, "host", "", "IMAP server hostname")
	cmd.Flags().StringVar(&account.IMAPPort, "port", "993", "IMAP server port")
	cmd.Flags().StringVar(&account.IMAPUsername, "username", "", "IMAP username (defaults to the email address)")
	cmd.Flags().BoolVar(&noTLS, "starttls", false, "Use STARTTLS instead of implicit TLS")
	cmd.Flags().StringVar(&password, "password", "", "IMAP password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("host")

	return cmd
}

func promptPassword(email string, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				Description("IMAP password or app password for "+email).
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(validateRequired("Password")),
		),
	).Run()
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := app.store.GetAccounts(cmd.Context())
			if err != nil {
				return err
			}

			for _, a := range accounts {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", a.UUID, a.DisplayName(), a.IMAPHost)
			}

			return nil
		},
	}
}

func newAccountRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <uuid>",
		Short: "Remove an account and its local folder data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uuid := args[0]
			if err := app.store.DeleteAccount(cmd.Context(), uuid); err != nil {
				return err
			}

			if err := app.secrets.Delete(credential.IMAPPasswordKey(uuid)); err != nil {
				log.Printf("account remove: deleting password of %s: %v", uuid, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", uuid)
			return nil
		},
	}
}
