package domain

// Session links a user to one device/login instance. It lives in the cache
// and is independently revocable from the tokens that reference it.
// Equality is by ID alone.
type Session struct {
	ID        ID
	UserID    ID
	Device    Device
	CreatedAt DateTime
}

// NewSession creates a session with a fresh ID and created_at.
func NewSession(userID ID, device Device) *Session {
	return &Session{
		ID:        NewID(),
		UserID:    userID,
		Device:    device,
		CreatedAt: Now(),
	}
}

// RestoreSession rebuilds a session from stored fields, e.g. when reading
// back from the cache.
func RestoreSession(id, userID ID, device Device, createdAt DateTime) *Session {
	return &Session{ID: id, UserID: userID, Device: device, CreatedAt: createdAt}
}

func (s *Session) Equal(other *Session) bool {
	return other != nil && s.ID == other.ID
}
