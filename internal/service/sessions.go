package service

import (
	"context"

	"github.com/iliyamo/auth-service/internal/domain"
)

// Sessions lists a user's live sessions, best-effort: ids still indexed but
// whose records already expired are skipped by the store.
func (a *Auth) Sessions(ctx context.Context, userID domain.ID) ([]*domain.Session, error) {
	return a.sessions.GetByUserID(ctx, userID)
}
