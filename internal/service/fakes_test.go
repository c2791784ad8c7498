package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/domain"
	"github.com/iliyamo/auth-service/internal/token"
)

// In-memory collaborators for service-level tests. They honor the store
// contracts (typed not-found errors, idempotent session delete) without
// touching MySQL, Redis or RabbitMQ.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*domain.User{}}
}

func (s *memUserStore) Add(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email || strings.EqualFold(u.Username.Value(), user.Username.Value()) {
			return domain.ErrUserAlreadyExists
		}
	}
	s.users[user.ID.Value()] = user
	return nil
}

func (s *memUserStore) Save(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID.Value()]; !ok {
		return domain.ErrUserNotFound
	}
	for id, u := range s.users {
		if id == user.ID.Value() {
			continue
		}
		if u.Email == user.Email || strings.EqualFold(u.Username.Value(), user.Username.Value()) {
			return domain.ErrUserAlreadyExists
		}
	}
	s.users[user.ID.Value()] = user
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id.Value()]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id.Value())
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id domain.ID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id.Value()]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *memUserStore) GetByEmail(_ context.Context, email domain.Email) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memUserStore) ExistsByID(ctx context.Context, id domain.ID) (bool, error) {
	_, err := s.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *memUserStore) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]*domain.Session{}}
}

func (s *memSessionStore) Add(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID.Value()] = session
	return nil
}

func (s *memSessionStore) Delete(_ context.Context, id, _ domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id.Value())
	return nil
}

func (s *memSessionStore) GetByID(_ context.Context, id domain.ID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id.Value()]; ok {
		return sess, nil
	}
	return nil, domain.ErrSessionDoesNotExist
}

func (s *memSessionStore) GetByUserID(_ context.Context, userID domain.ID) ([]*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Session
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *memSessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// plainHasher makes assertions about stored hashes trivial.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (plainHasher) Verify(plain, hashed string) bool  { return hashed == "hashed:"+plain }

type publishedEvent struct {
	name string
	data map[string]string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event string, data map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{name: event, data: data})
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.name
	}
	return out
}

type fixture struct {
	auth     *Auth
	users    *memUserStore
	sessions *memSessionStore
	events   *recordingPublisher
	engine   *token.Engine
}

// 15 min access, 30 day refresh, 2 day rotation threshold.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newMemUserStore()
	sessions := newMemSessionStore()
	events := &recordingPublisher{}
	engine := token.NewEngine("service-test-secret", 15, 30, 2)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		auth:     NewAuth(users, sessions, engine, plainHasher{}, events, log),
		users:    users,
		sessions: sessions,
		events:   events,
		engine:   engine,
	}
}

func (f *fixture) signup(t *testing.T, username, email, password string) TokenPair {
	t.Helper()
	pair, err := f.auth.Signup(context.Background(), username, email, password, "test-agent")
	require.NoError(t, err)
	return pair
}
