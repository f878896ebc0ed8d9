package cmd

import (
	"fmt"
	"time"

	"github.com/nhle/unread-widget/internal/counts"
	"github.com/nhle/unread-widget/internal/credential"
	"github.com/nhle/unread-widget/internal/folders"
	"github.com/nhle/unread-widget/internal/i18n"
	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/source/email"
	"github.com/nhle/unread-widget/internal/store"
	"github.com/nhle/unread-widget/internal/widget"
)

type app struct {
	cfgPath  string
	cfg      *model.AppConfig
	store    store.Store
	secrets  *credential.Keyring
	labels   i18n.Labels
	resolver *widget.Provider
	syncer   *email.Syncer
	close    func() error
}

func wireApp() (*app, error) {
	cfgPath := model.DefaultConfigPath()
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := newApp(cfg, s, credential.NewKeyring(), email.DialIMAP)
	a.cfgPath = cfgPath
	a.close = s.Close
	return a, nil
}

// newApp wires the resolver and syncer around an open store.
func newApp(cfg *model.AppConfig, s store.Store, secrets *credential.Keyring, dial email.Dialer) *app {
	labels := i18n.New(cfg.Display.Locale)

	return &app{
		cfg:     cfg,
		store:   s,
		secrets: secrets,
		labels:  labels,
		resolver: widget.NewProvider(
			s,
			counts.New(s),
			folders.DefaultFolderProvider{},
			s,
			folders.NewFormatterFactory(labels),
			labels.Get(i18n.UnifiedInbox),
		),
		syncer: email.NewSyncer(s, secrets, dial),
		close:  func() error { return nil },
	}
}

func (a *app) pollInterval() time.Duration {
	return time.Duration(a.cfg.Sync.PollIntervalSec) * time.Second
}

func (a *app) fetchTimeout() time.Duration {
	return time.Duration(a.cfg.Sync.FetchTimeoutSec) * time.Second
}
