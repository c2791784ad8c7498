package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/auth-service/internal/domain"
)

// Redis key shapes. A session lives in two places that must never diverge:
// its own hash and the per-user index set.
func sessionKey(id domain.ID) string      { return "session:" + id.Value() }
func userSessionsKey(id domain.ID) string { return "user:" + id.Value() }

// SessionRepo stores sessions in Redis. All writes touching both the
// session hash and the user index go through a MULTI/EXEC pipeline so a
// half-applied write is never observable; on pipeline failure the whole
// operation fails with *domain.SessionStorageError.
type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// NewSessionRepo binds the repository to a Redis client. ttl should match
// the refresh-token lifetime so abandoned sessions self-clean.
func NewSessionRepo(rdb *redis.Client, ttl time.Duration, log *slog.Logger) *SessionRepo {
	return &SessionRepo{rdb: rdb, ttl: ttl, log: log}
}

// Add persists the session fields and registers the id in the user's index
// set, atomically.
func (r *SessionRepo) Add(ctx context.Context, session *domain.Session) error {
	keySession := sessionKey(session.ID)
	keyUser := userSessionsKey(session.UserID)

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, keySession, map[string]interface{}{
			"user_id":    session.UserID.Value(),
			"device":     session.Device.Value(),
			"created_at": session.CreatedAt.String(),
		})
		pipe.Expire(ctx, keySession, r.ttl)
		pipe.SAdd(ctx, keyUser, session.ID.Value())
		pipe.Expire(ctx, keyUser, r.ttl)
		return nil
	})
	if err != nil {
		r.log.Error("failed to save session",
			"session_id", session.ID.Value(), "user_id", session.UserID.Value(), "err", err)
		return &domain.SessionStorageError{Op: "add", Err: err}
	}

	r.log.Info("session saved",
		"session_id", session.ID.Value(), "user_id", session.UserID.Value(), "ttl", r.ttl)
	return nil
}

// Delete removes the session record and de-indexes it, atomically. Deleting
// a session that is already gone is not an error; the no-op is only logged.
func (r *SessionRepo) Delete(ctx context.Context, id, userID domain.ID) error {
	var (
		delCmd  *redis.IntCmd
		sremCmd *redis.IntCmd
	)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		delCmd = pipe.Del(ctx, sessionKey(id))
		sremCmd = pipe.SRem(ctx, userSessionsKey(userID), id.Value())
		return nil
	})
	if err != nil {
		r.log.Error("failed to delete session",
			"session_id", id.Value(), "user_id", userID.Value(), "err", err)
		return &domain.SessionStorageError{Op: "delete", Err: err}
	}

	if delCmd.Val() == 0 {
		r.log.Warn("session already deleted or never existed", "session_id", id.Value())
	}
	if sremCmd.Val() == 0 {
		r.log.Warn("session missing from user index", "session_id", id.Value(), "user_id", userID.Value())
	}
	return nil
}

// GetByID fetches one session. A missing key is domain.ErrSessionDoesNotExist,
// not a storage failure.
func (r *SessionRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Session, error) {
	data, err := r.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		r.log.Error("failed to fetch session", "session_id", id.Value(), "err", err)
		return nil, &domain.SessionStorageError{Op: "get_by_id", Err: err}
	}
	if len(data) == 0 {
		return nil, domain.ErrSessionDoesNotExist
	}
	return restoreSession(id, data)
}

// GetByUserID resolves every indexed session id for a user. An id present
// in the index without a backing record (the record can expire first) is
// skipped with a warning; the returned slice is the best-effort live set.
func (r *SessionRepo) GetByUserID(ctx context.Context, userID domain.ID) ([]*domain.Session, error) {
	ids, err := r.rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		r.log.Error("failed to fetch user session index", "user_id", userID.Value(), "err", err)
		return nil, &domain.SessionStorageError{Op: "get_by_user_id", Err: err}
	}

	sessions := make([]*domain.Session, 0, len(ids))
	for _, raw := range ids {
		id, err := domain.ParseID(raw)
		if err != nil {
			r.log.Warn("invalid session id in user index", "user_id", userID.Value(), "raw", raw)
			continue
		}
		session, err := r.GetByID(ctx, id)
		if errors.Is(err, domain.ErrSessionDoesNotExist) {
			r.log.Warn("session in user index but not in storage",
				"session_id", id.Value(), "user_id", userID.Value())
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	r.log.Debug("fetched user sessions", "user_id", userID.Value(), "total", len(sessions))
	return sessions, nil
}

func restoreSession(id domain.ID, data map[string]string) (*domain.Session, error) {
	userID, err := domain.ParseID(data["user_id"])
	if err != nil {
		return nil, &domain.SessionStorageError{Op: "restore", Err: fmt.Errorf("corrupt user_id: %w", err)}
	}
	device, err := domain.NewDevice(data["device"])
	if err != nil {
		return nil, &domain.SessionStorageError{Op: "restore", Err: fmt.Errorf("corrupt device: %w", err)}
	}
	createdAt, err := domain.DateTimeFromString(data["created_at"])
	if err != nil {
		return nil, &domain.SessionStorageError{Op: "restore", Err: fmt.Errorf("corrupt created_at: %w", err)}
	}
	return domain.RestoreSession(id, userID, device, createdAt), nil
}
