package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/unread-widget/internal/model"
	"github.com/nhle/unread-widget/internal/store"
	"github.com/nhle/unread-widget/internal/testutil"
)

func folderFilter(folderID int64) store.CountFilter {
	return store.CountFilter{FolderID: &folderID}
}

func TestReplaceFolderMessagesReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	account := testutil.SeedAccount(t, s, model.Account{Email: "me@example.com"})
	id := testutil.SeedFolder(t, s, model.Folder{AccountUUID: account.UUID, ServerID: "INBOX"}, testutil.Unread(1, 5)...)

	require.NoError(t, s.ReplaceFolderMessages(ctx, id, []store.MessageFlags{
		{UID: 1, Seen: true},
		{UID: 6, Flagged: true},
	}))

	counts, err := s.CountMessages(ctx, folderFilter(id))
	require.NoError(t, err)
	assert.Equal(t, model.MessageCounts{Unread: 1, Starred: 1}, counts)

	require.NoError(t, s.ReplaceFolderMessages(ctx, id, nil))
	counts, err = s.CountMessages(ctx, folderFilter(id))
	require.NoError(t, err)
	assert.Equal(t, model.MessageCounts{}, counts)
}

func TestCountMessagesFilters(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	work := testutil.SeedAccount(t, s, model.Account{Email: "work@example.com"})
	home := testutil.SeedAccount(t, s, model.Account{Email: "home@example.com"})

	workInbox := testutil.SeedFolder(t, s, model.Folder{
		AccountUUID: work.UUID, ServerID: "INBOX", Type: model.FolderTypeInbox, Integrate: true,
	}, store.MessageFlags{UID: 1}, store.MessageFlags{UID: 2, Flagged: true}, store.MessageFlags{UID: 3, Deleted: true})
	testutil.SeedFolder(t, s, model.Folder{
		AccountUUID: work.UUID, ServerID: "Reports",
	}, testutil.Unread(10, 4)...)
	testutil.SeedFolder(t, s, model.Folder{
		AccountUUID: work.UUID, ServerID: "Junk", Type: model.FolderTypeSpam,
	}, testutil.Unread(20, 7)...)
	testutil.SeedFolder(t, s, model.Folder{
		AccountUUID: home.UUID, ServerID: "INBOX", Type: model.FolderTypeInbox, Integrate: true,
	}, testutil.Unread(1, 6)...)

	tests := []struct {
		name   string
		filter store.CountFilter
		want   model.MessageCounts
	}{
		{
			name:   "everything except deleted",
			filter: store.CountFilter{},
			want:   model.MessageCounts{Unread: 19, Starred: 1},
		},
		{
			name:   "integrated folders",
			filter: store.CountFilter{IntegrateOnly: true},
			want:   model.MessageCounts{Unread: 8, Starred: 1},
		},
		{
			name:   "one account",
			filter: store.CountFilter{AccountUUID: &work.UUID},
			want:   model.MessageCounts{Unread: 13, Starred: 1},
		},
		{
			name: "one account without spam",
			filter: store.CountFilter{
				AccountUUID:  &work.UUID,
				ExcludeTypes: []model.FolderType{model.FolderTypeSpam, model.FolderTypeTrash},
			},
			want: model.MessageCounts{Unread: 6, Starred: 1},
		},
		{
			name:   "one folder",
			filter: store.CountFilter{AccountUUID: &work.UUID, FolderID: &workInbox},
			want:   model.MessageCounts{Unread: 2, Starred: 1},
		},
		{
			name:   "folder of another account",
			filter: store.CountFilter{AccountUUID: &home.UUID, FolderID: &workInbox},
			want:   model.MessageCounts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.CountMessages(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
