package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nhle/unread-widget/internal/model"
)

const (
	accountUUID         = "00000000-0000-0000-0000-000000000000"
	accountName         = "Test account"
	localizedFolderName = "Posteingang"
	unifiedUnreadCount  = 1
	accountUnreadCount  = 2
	folderUnreadCount   = 3
)

const folderID int64 = 23

var testFolder = model.Folder{
	ID:          folderID,
	AccountUUID: accountUUID,
	ServerID:    "INBOX",
	Name:        "INBOX",
	Type:        model.FolderTypeInbox,
}

type fakeAccounts map[string]model.Account

func (f fakeAccounts) GetAccount(_ context.Context, uuid string) (model.Account, error) {
	account, ok := f[uuid]
	if !ok {
		return model.Account{}, fmt.Errorf("getting account %s: %w", uuid, model.ErrAccountNotFound)
	}
	return account, nil
}

type fakeCounts struct{}

func (fakeCounts) UnifiedCounts(context.Context) (model.MessageCounts, error) {
	return model.MessageCounts{Unread: unifiedUnreadCount}, nil
}

func (fakeCounts) AccountCounts(context.Context, model.Account) (model.MessageCounts, error) {
	return model.MessageCounts{Unread: accountUnreadCount}, nil
}

func (fakeCounts) FolderUnreadCount(context.Context, model.Account, int64) (int, error) {
	return folderUnreadCount, nil
}

type mockCounts struct {
	mock.Mock
}

func (m *mockCounts) UnifiedCounts(ctx context.Context) (model.MessageCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.MessageCounts), args.Error(1)
}

func (m *mockCounts) AccountCounts(ctx context.Context, account model.Account) (model.MessageCounts, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(model.MessageCounts), args.Error(1)
}

func (m *mockCounts) FolderUnreadCount(ctx context.Context, account model.Account, folderID int64) (int, error) {
	args := m.Called(ctx, account, folderID)
	return args.Int(0), args.Error(1)
}

type fakeDefaultFolders struct {
	id  int64
	err error
}

func (f fakeDefaultFolders) DefaultFolder(context.Context, model.Account) (int64, error) {
	return f.id, f.err
}

type fakeFolders map[int64]model.Folder

func (f fakeFolders) GetFolder(_ context.Context, uuid string, id int64) (model.Folder, error) {
	folder, ok := f[id]
	if !ok || folder.AccountUUID != uuid {
		return model.Folder{}, fmt.Errorf("getting folder %d: %w", id, model.ErrFolderNotFound)
	}
	return folder, nil
}

type fakeFormatter map[int64]string

func (f fakeFormatter) DisplayName(folder model.Folder) string {
	return f[folder.ID]
}

type testDeps struct {
	accounts       AccountDirectory
	counts         MessageCountsProvider
	defaultFolders DefaultFolderProvider
	folders        FolderRepository
}

func defaultDeps() testDeps {
	return testDeps{
		accounts: fakeAccounts{
			accountUUID: {UUID: accountUUID, Name: accountName, Email: "test@example.com"},
		},
		counts:         fakeCounts{},
		defaultFolders: fakeDefaultFolders{id: folderID},
		folders:        fakeFolders{folderID: testFolder},
	}
}

func newTestProvider(deps testDeps) *Provider {
	formatters := func(model.Account) FolderNameFormatter {
		return fakeFormatter{folderID: localizedFolderName}
	}
	return NewProvider(deps.accounts, deps.counts, deps.defaultFolders, deps.folders, formatters, "Unified Inbox")
}

func folderRef(id int64) *int64 { return &id }

func TestLoadUnreadWidgetDataUnifiedInbox(t *testing.T) {
	provider := newTestProvider(defaultDeps())

	data, ok, err := provider.LoadUnreadWidgetData(context.Background(), model.WidgetConfiguration{
		AppWidgetID: 1,
		AccountUUID: model.UnifiedInboxAccountUUID,
	})

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.UnreadWidgetData{
		AppWidgetID: 1,
		Title:       "Unified Inbox",
		UnreadCount: unifiedUnreadCount,
	}, data)
}

func TestLoadUnreadWidgetDataUnifiedInboxWithoutAccounts(t *testing.T) {
	counts := &mockCounts{}
	counts.On("UnifiedCounts", mock.Anything).Return(model.MessageCounts{Unread: 7, Starred: 2}, nil).Once()

	deps := defaultDeps()
	deps.accounts = fakeAccounts{}
	deps.counts = counts
	provider := newTestProvider(deps)

	data, ok, err := provider.LoadUnreadWidgetData(context.Background(), model.WidgetConfiguration{
		AppWidgetID: 2,
		AccountUUID: model.UnifiedInboxAccountUUID,
		FolderID:    folderRef(folderID),
	})

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Unified Inbox", data.Title)
	assert.Equal(t, 7, data.UnreadCount)
	assert.Nil(t, data.OpenFolderID)
	counts.AssertExpectations(t)
	counts.AssertNotCalled(t, "AccountCounts", mock.Anything, mock.Anything)
	counts.AssertNotCalled(t, "FolderUnreadCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadUnreadWidgetDataRegularAccount(t *testing.T) {
	provider := newTestProvider(defaultDeps())

	data, ok, err := provider.LoadUnreadWidgetData(context.Background(), model.WidgetConfiguration{
		AppWidgetID: 3,
		AccountUUID: accountUUID,
	})

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, accountName, data.Title)
	assert.Equal(t, accountUnreadCount, data.UnreadCount)
	require.NotNil(t, data.OpenFolderID)
	assert.Equal(t, folderID, *data.OpenFolderID)
}

func TestLoadUnreadWidgetDataAccountWithoutDefaultFolder(t *testing.T) {
	deps := defaultDeps()
	deps.defaultFolders = fakeDefaultFolders{err: model.ErrFolderNotFound}
	provider := newTestProvider(deps)

	data, ok, err := provider.LoadUnreadWidgetData(context.Background(), model.WidgetConfiguration{
		AppWidgetID: 3,
		AccountUUID: accountUUID,
	})

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, accountName, data.Title)
	assert.Nil(t, data.OpenFolderID)
}

func TestLoadUnreadWidgetDataAccountFallsBackToEmail(t *testing.T) {
	deps := defaultDeps()
	deps.accounts = fakeAccounts{
		accountUUID: {UUID: accountUUID, Email: "test@example.com"},
	}
	provider := newTestProvider(deps)

	data, ok, err := provider.LoadUnreadWidgetData(context.Background(), model.WidgetConfiguration{
		AppWidgetID: 3,
		AccountUUID: accountUUID,
		FolderID:    folderRef(folderID),
	})

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "test@example.com - "+localizedFolderName, data.Title)
}

func TestLoadUnreadWidgetDataFolder(t *testing.T) {
	provider := newTestProvider(defaultDeps())

	data, ok, err := provider.LoadUnreadWidgetData(context.Background(), model.WidgetConfiguration{
		AppWidgetID: 4,
		AccountUUID: accountUUID,
		FolderID:    folderRef(folderID),
	})

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, accountName+" - "+localizedFolderName, data.Title)
	assert.Equal(t, folderUnreadCount, data.UnreadCount)
	require.NotNil(t, data.OpenFolderID)
	assert.Equal(t, folderID, *data.OpenFolderID)
}

func TestLoadUnreadWidgetDataNonExistentAccount(t *testing.T) {
	provider := newTestProvider(defaultDeps())

	tests := []struct {
		name     string
		folderID *int64
	}{
		{name: "without folder"},
		{name: "with folder", folderID: folderRef(folderID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok, err := provider.LoadUnreadWidgetData(context.Background(), model.WidgetConfiguration{
				AppWidgetID: 3,
				AccountUUID: "invalid",
				FolderID:    tt.folderID,
			})

			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, model.UnreadWidgetData{}, data)
		})
	}
}

func TestLoadUnreadWidgetDataNonExistentFolder(t *testing.T) {
	provider := newTestProvider(defaultDeps())

	_, ok, err := provider.LoadUnreadWidgetData(context.Background(), model.WidgetConfiguration{
		AppWidgetID: 4,
		AccountUUID: accountUUID,
		FolderID:    folderRef(42),
	})

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadUnreadWidgetDataFolderOfAnotherAccount(t *testing.T) {
	deps := defaultDeps()
	deps.folders = fakeFolders{folderID: {ID: folderID, AccountUUID: "someone-else"}}
	provider := newTestProvider(deps)

	_, ok, err := provider.LoadUnreadWidgetData(context.Background(), model.WidgetConfiguration{
		AppWidgetID: 4,
		AccountUUID: accountUUID,
		FolderID:    folderRef(folderID),
	})

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadUnreadWidgetDataPropagatesCollaboratorErrors(t *testing.T) {
	storageErr := errors.New("disk I/O error")

	counts := &mockCounts{}
	counts.On("AccountCounts", mock.Anything, mock.Anything).Return(model.MessageCounts{}, storageErr)

	deps := defaultDeps()
	deps.counts = counts
	provider := newTestProvider(deps)

	_, ok, err := provider.LoadUnreadWidgetData(context.Background(), model.WidgetConfiguration{
		AppWidgetID: 3,
		AccountUUID: accountUUID,
	})

	require.ErrorIs(t, err, storageErr)
	assert.False(t, ok)
}

func TestLoadUnreadWidgetDataIsIdempotent(t *testing.T) {
	provider := newTestProvider(defaultDeps())
	cfg := model.WidgetConfiguration{
		AppWidgetID: 4,
		AccountUUID: accountUUID,
		FolderID:    folderRef(folderID),
	}

	first, firstOK, err := provider.LoadUnreadWidgetData(context.Background(), cfg)
	require.NoError(t, err)
	second, secondOK, err := provider.LoadUnreadWidgetData(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, firstOK, secondOK)
	assert.Equal(t, first, second)
}

func TestLoadUnreadWidgetDataConcurrentResolution(t *testing.T) {
	provider := newTestProvider(defaultDeps())
	configs := []model.WidgetConfiguration{
		{AppWidgetID: 1, AccountUUID: model.UnifiedInboxAccountUUID},
		{AppWidgetID: 3, AccountUUID: accountUUID},
		{AppWidgetID: 4, AccountUUID: accountUUID, FolderID: folderRef(folderID)},
		{AppWidgetID: 5, AccountUUID: "invalid"},
	}
	wantCounts := map[int]int{1: unifiedUnreadCount, 3: accountUnreadCount, 4: folderUnreadCount}

	var wg sync.WaitGroup
	errs := make(chan error, len(configs)*10)
	for i := 0; i < 10; i++ {
		for _, cfg := range configs {
			wg.Add(1)
			go func(cfg model.WidgetConfiguration) {
				defer wg.Done()
				data, ok, err := provider.LoadUnreadWidgetData(context.Background(), cfg)
				if err != nil {
					errs <- err
					return
				}
				want, present := wantCounts[cfg.AppWidgetID]
				if ok != present || (ok && data.UnreadCount != want) {
					errs <- fmt.Errorf("widget %d: got (%v, %d)", cfg.AppWidgetID, ok, data.UnreadCount)
				}
			}(cfg)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
