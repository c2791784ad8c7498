package service

import (
	"context"

	"github.com/iliyamo/auth-service/internal/domain"
)

// Profile returns the stored account for an authenticated user id.
func (a *Auth) Profile(ctx context.Context, userID domain.ID) (*domain.User, error) {
	return a.users.GetByID(ctx, userID)
}
