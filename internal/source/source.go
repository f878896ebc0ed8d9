package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/unread-widget/internal/model"
)

// AuthError indicates that authentication has failed for an account.
// It is returned by mail clients when the server rejects the login.
type AuthError struct {
	AccountUUID string
	Message     string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.AccountUUID, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// SyncResult summarizes one account synchronization.
type SyncResult struct {
	AccountUUID string
	Folders     int
	Messages    int
	Unread      int
	FinishedAt  time.Time
}

// Syncer refreshes the local folder list and message flags of an account.
type Syncer interface {
	SyncAccount(ctx context.Context, account model.Account) (*SyncResult, error)
}
