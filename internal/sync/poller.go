package sync

import (
	"context"
	"fmt"
	"log"
	gosync "sync"
	"time"

	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/source"
)

// SyncState represents the current state of an account sync.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "running"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// SyncStatus holds the sync state for a single account.
type SyncStatus struct {
	AccountUUID string
	State       SyncState
	LastSync    time.Time
	Error       error
}

// Result is sent on the results channel when an account sync completes.
type Result struct {
	AccountUUID string
	Sync        *source.SyncResult
	Error       error
	AuthError   *AuthError

	// NewUnread is how many more unread messages the account has than after
	// its previous sync. It is zero on the first sync.
	NewUnread int
}

// AuthError describes an account whose credentials were rejected.
type AuthError struct {
	AccountUUID string
	Message     string
}

const (
	defaultPollInterval = 300 * time.Second
	defaultFetchTimeout = 30 * time.Second
)

// Options controls polling cadence.
type Options struct {
	PollInterval time.Duration
	FetchTimeout time.Duration
}

// accountEntry holds a registered account and its trigger channel.
type accountEntry struct {
	account model.Account
	trigger chan struct{}
}

// Poller orchestrates background syncing of registered accounts.
type Poller struct {
	syncer   source.Syncer
	opts     Options
	accounts []accountEntry
	statuses map[string]*SyncStatus
	unread   map[string]int
	resultCh chan Result
	stopCh   chan struct{}
	wg       gosync.WaitGroup
	mu       gosync.Mutex
	running  bool
}

// New creates a new Poller that syncs accounts with syncer.
func New(syncer source.Syncer, opts Options) *Poller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	return &Poller{
		syncer:   syncer,
		opts:     opts,
		statuses: make(map[string]*SyncStatus),
		unread:   make(map[string]int),
		resultCh: make(chan Result, 16),
		stopCh:   make(chan struct{}),
	}
}

// RegisterAccount adds an account to the poller. It must be called before Start.
func (p *Poller) RegisterAccount(account model.Account) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.accounts = append(p.accounts, accountEntry{
		account: account,
		trigger: make(chan struct{}, 1),
	})
	p.statuses[account.UUID] = &SyncStatus{
		AccountUUID: account.UUID,
		State:       SyncIdle,
	}
}

// Results returns the channel on which sync results are delivered.
// It is closed once Stop has returned.
func (p *Poller) Results() <-chan Result {
	return p.resultCh
}

// Start launches one polling goroutine per registered account. Each
// account is synced immediately and then every poll interval.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true

	for _, entry := range p.accounts {
		p.wg.Add(1)
		go p.pollAccount(entry)
	}
}

// Stop halts all polling goroutines and waits for in-flight syncs.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
	close(p.resultCh)
}

// RefreshAll triggers an immediate sync of all registered accounts.
func (p *Poller) RefreshAll() {
	p.mu.Lock()
	entries := make([]accountEntry, len(p.accounts))
	copy(entries, p.accounts)
	p.mu.Unlock()

	for _, entry := range entries {
		trigger(entry)
	}
}

// RefreshAccount triggers an immediate sync of a single account.
// It reports whether the account is registered.
func (p *Poller) RefreshAccount(accountUUID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, entry := range p.accounts {
		if entry.account.UUID == accountUUID {
			trigger(entry)
			return true
		}
	}
	return false
}

// GetStatuses returns the current sync status of all registered accounts
// in registration order.
func (p *Poller) GetStatuses() []SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]SyncStatus, 0, len(p.accounts))
	for _, entry := range p.accounts {
		statuses = append(statuses, *p.statuses[entry.account.UUID])
	}
	return statuses
}

// trigger requests a sync without blocking; a pending request is enough.
func trigger(entry accountEntry) {
	select {
	case entry.trigger <- struct{}{}:
	default:
	}
}

// pollAccount runs the polling loop for a single account.
func (p *Poller) pollAccount(entry accountEntry) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	// Do an initial sync immediately
	p.syncAccount(entry.account)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.syncAccount(entry.account)
		case <-entry.trigger:
			p.syncAccount(entry.account)
		}
	}
}

// syncAccount performs a single sync and publishes its result.
func (p *Poller) syncAccount(account model.Account) {
	p.setStatus(account.UUID, SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), p.opts.FetchTimeout)
	defer cancel()

	// Stop cancels in-flight syncs.
	go func() {
		select {
		case <-p.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := p.syncer.SyncAccount(ctx, account)
	if err != nil {
		p.setStatus(account.UUID, SyncError, err)
		log.Printf("sync: account %s: %v", account.UUID, err)

		if source.IsAuthError(err) {
			p.sendResult(Result{
				AccountUUID: account.UUID,
				Error:       err,
				AuthError: &AuthError{
					AccountUUID: account.UUID,
					Message: fmt.Sprintf(
						"%s: authentication failed. Run 'unreadwidget account add' to update the password.",
						account.DisplayName(),
					),
				},
			})
			return
		}

		p.sendResult(Result{AccountUUID: account.UUID, Error: err})
		return
	}

	p.setStatus(account.UUID, SyncIdle, nil)
	p.sendResult(Result{
		AccountUUID: account.UUID,
		Sync:        result,
		NewUnread:   p.recordUnread(account.UUID, result.Unread),
	})
}

// recordUnread stores the latest unread total and returns its increase.
func (p *Poller) recordUnread(accountUUID string, unread int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev, seen := p.unread[accountUUID]
	p.unread[accountUUID] = unread
	if !seen || unread <= prev {
		return 0
	}
	return unread - prev
}

// setStatus updates the sync status for an account.
func (p *Poller) setStatus(accountUUID string, state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.statuses[accountUUID]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state == SyncIdle && err == nil {
		status.LastSync = time.Now()
	}
}

// sendResult sends a Result on the result channel without blocking.
func (p *Poller) sendResult(r Result) {
	select {
	case p.resultCh <- r:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}
