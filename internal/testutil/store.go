package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedAccount stores an account and returns it with generated fields set.
func SeedAccount(t *testing.T, s store.Store, account model.Account) model.Account {
	t.Helper()

	created, err := s.CreateAccount(context.Background(), account)
	require.NoError(t, err)
	return created
}

// SeedFolder stores a folder with the given message flags and returns its id.
func SeedFolder(t *testing.T, s store.Store, folder model.Folder, messages ...store.MessageFlags) int64 {
	t.Helper()

	ctx := context.Background()
	id, err := s.UpsertFolder(ctx, folder)
	require.NoError(t, err)
	require.NoError(t, s.ReplaceFolderMessages(ctx, id, messages))
	return id
}

// Unread returns n unseen message snapshots with UIDs starting at first.
func Unread(first uint32, n int) []store.MessageFlags {
	msgs := make([]store.MessageFlags, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, store.MessageFlags{UID: first + uint32(i)})
	}
	return msgs
}
