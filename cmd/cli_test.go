package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/unread-widget/internal/credential"
	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/source/email"
	"github.com/nhle/unread-widget/internal/store"
	"github.com/nhle/unread-widget/internal/testutil"
)

type fakeFetcher struct {
	mailboxes []email.RemoteMailbox
}

func (f fakeFetcher) FetchMailboxes(context.Context) ([]email.RemoteMailbox, error) {
	return f.mailboxes, nil
}

type testCLI struct {
	app   *app
	store *store.SQLiteStore
}

func newTestCLI(t *testing.T, locale string, mailboxes ...email.RemoteMailbox) *testCLI {
	t.Helper()

	s := testutil.NewTestStore(t)
	cfg := &model.AppConfig{
		Display: model.DisplayConfig{Locale: locale},
		Sync:    model.SyncConfig{PollIntervalSec: 300, FetchTimeoutSec: 30},
	}
	secrets := credential.NewKeyringWith(keyring.NewArrayKeyring(nil))
	dial := func(model.Account, string) email.MailboxFetcher {
		return fakeFetcher{mailboxes: mailboxes}
	}

	a := newApp(cfg, s, secrets, dial)
	a.cfgPath = filepath.Join(t.TempDir(), "config.yaml")
	return &testCLI{app: a, store: s}
}

func (c *testCLI) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmdWithApp(c.app, nil)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (c *testCLI) addAccount(t *testing.T, name, address string) string {
	t.Helper()

	stdout, _, err := c.run(t, "account", "add",
		"--name", name,
		"--email", address,
		"--host", "imap.example.com",
		"--password", "secret",
	)
	require.NoError(t, err)
	return strings.SplitN(stdout, "\t", 2)[0]
}

func TestAccountAddStoresPassword(t *testing.T) {
	cli := newTestCLI(t, "en")
	uuid := cli.addAccount(t, "Personal", "me@example.com")

	password, err := cli.app.secrets.Get(credential.IMAPPasswordKey(uuid))
	require.NoError(t, err)
	assert.Equal(t, "secret", password)

	stdout, _, err := cli.run(t, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, uuid)
	assert.Contains(t, stdout, "Personal")
}

func TestAccountAddRequiresEmail(t *testing.T) {
	cli := newTestCLI(t, "en")

	_, _, err := cli.run(t, "account", "add", "--host", "imap.example.com", "--password", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"email\" not set")
}

func TestAccountRemoveDeletesPassword(t *testing.T) {
	cli := newTestCLI(t, "en")
	uuid := cli.addAccount(t, "Personal", "me@example.com")

	_, _, err := cli.run(t, "account", "remove", uuid)
	require.NoError(t, err)

	_, err = cli.app.secrets.Get(credential.IMAPPasswordKey(uuid))
	assert.ErrorIs(t, err, credential.ErrNotFound)
}

func TestSyncThenShowWidgets(t *testing.T) {
	cli := newTestCLI(t, "en",
		email.RemoteMailbox{Name: "INBOX", Type: model.FolderTypeInbox, Messages: testutil.Unread(1, 3)},
		email.RemoteMailbox{Name: "Projects", Type: model.FolderTypeRegular, Messages: testutil.Unread(10, 2)},
		email.RemoteMailbox{Name: "Junk", Type: model.FolderTypeSpam, Messages: testutil.Unread(20, 9)},
	)
	uuid := cli.addAccount(t, "Personal", "me@example.com")

	stdout, _, err := cli.run(t, "sync")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Personal\t3 folders\t14 unread")

	_, _, err = cli.run(t, "widget", "configure", "--id", "1", "--account", model.UnifiedInboxAccountUUID)
	require.NoError(t, err)
	_, _, err = cli.run(t, "widget", "configure", "--id", "2", "--account", uuid)
	require.NoError(t, err)

	stdout, _, err = cli.run(t, "widget", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1\t3\tUnified Inbox")
	assert.Contains(t, stdout, "2\t5\tPersonal")
}

func TestWidgetShowFolderJSON(t *testing.T) {
	cli := newTestCLI(t, "de")
	account := testutil.SeedAccount(t, cli.store, model.Account{Name: "Arbeit", Email: "me@example.com"})
	inboxID := testutil.SeedFolder(t, cli.store, model.Folder{
		AccountUUID: account.UUID, ServerID: "INBOX", Name: "INBOX", Type: model.FolderTypeInbox,
	}, testutil.Unread(1, 4)...)

	_, _, err := cli.run(t, "widget", "configure",
		"--id", "7", "--account", account.UUID, "--folder", strconv.FormatInt(inboxID, 10))
	require.NoError(t, err)

	stdout, _, err := cli.run(t, "widget", "show", "7", "--json")
	require.NoError(t, err)

	var got widgetJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.True(t, got.Available)
	assert.Equal(t, 7, got.AppWidgetID)
	assert.Equal(t, "Arbeit - Posteingang", got.Title)
	assert.Equal(t, 4, got.UnreadCount)
	require.NotNil(t, got.OpenFolderID)
	assert.Equal(t, inboxID, *got.OpenFolderID)
}

func TestWidgetShowAfterAccountRemovalIsPlaceholder(t *testing.T) {
	cli := newTestCLI(t, "en")
	uuid := cli.addAccount(t, "Personal", "me@example.com")

	_, _, err := cli.run(t, "widget", "configure", "--id", "3", "--account", uuid)
	require.NoError(t, err)
	_, _, err = cli.run(t, "account", "remove", uuid)
	require.NoError(t, err)

	stdout, _, err := cli.run(t, "widget", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "no longer available")

	stdout, _, err = cli.run(t, "widget", "show", "3", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\"available\": false")
}

func TestWidgetShowUnconfigured(t *testing.T) {
	cli := newTestCLI(t, "en")

	stdout, _, err := cli.run(t, "widget", "show", "42")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Widget 42")
}

func TestWidgetConfigureRejectsUnknownTargets(t *testing.T) {
	cli := newTestCLI(t, "en")
	uuid := cli.addAccount(t, "Personal", "me@example.com")

	_, _, err := cli.run(t, "widget", "configure", "--id", "1", "--account", "does-not-exist")
	assert.ErrorIs(t, err, model.ErrAccountNotFound)

	_, _, err = cli.run(t, "widget", "configure", "--id", "1", "--account", uuid, "--folder", "999")
	assert.ErrorIs(t, err, model.ErrFolderNotFound)
}

func TestWidgetConfigureAssignsNextID(t *testing.T) {
	cli := newTestCLI(t, "en")

	_, _, err := cli.run(t, "widget", "configure", "--id", "4", "--account", model.UnifiedInboxAccountUUID)
	require.NoError(t, err)

	stdout, _, err := cli.run(t, "widget", "configure", "--account", model.UnifiedInboxAccountUUID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "configured widget 5")
}

func TestWidgetRemove(t *testing.T) {
	cli := newTestCLI(t, "en")

	_, _, err := cli.run(t, "widget", "configure", "--id", "1", "--account", model.UnifiedInboxAccountUUID)
	require.NoError(t, err)
	_, _, err = cli.run(t, "widget", "remove", "1")
	require.NoError(t, err)

	_, _, err = cli.run(t, "widget", "remove", "1")
	assert.ErrorIs(t, err, model.ErrWidgetNotFound)
}

func TestFolderListShowsLocalizedNames(t *testing.T) {
	cli := newTestCLI(t, "fr")
	account := testutil.SeedAccount(t, cli.store, model.Account{Email: "me@example.com"})
	testutil.SeedFolder(t, cli.store, model.Folder{
		AccountUUID: account.UUID, ServerID: "INBOX", Name: "INBOX", Type: model.FolderTypeInbox,
	}, testutil.Unread(1, 2)...)

	stdout, _, err := cli.run(t, "folder", "list", account.UUID)
	require.NoError(t, err)
	out := strings.ToLower(stdout)
	assert.Contains(t, out, "me@example.com")
	assert.Contains(t, out, "boîte de réception")
	assert.Contains(t, out, "total folders 1")
}

func TestConfigInitWritesLoadableFile(t *testing.T) {
	cli := newTestCLI(t, "de")
	cli.app.cfg.Database.Path = "/tmp/widgets.db"

	_, _, err := cli.run(t, "config", "init")
	require.NoError(t, err)

	loaded, err := model.LoadConfig(cli.app.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "de", loaded.Display.Locale)
	assert.Equal(t, "/tmp/widgets.db", loaded.Database.Path)

	_, _, err = cli.run(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = cli.run(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	cli := newTestCLI(t, "fr-CA")

	stdout, _, err := cli.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "display.locale\tfr-CA (fr)")
	assert.Contains(t, stdout, "sync.poll_interval_sec\t300")
}
