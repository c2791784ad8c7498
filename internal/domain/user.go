package domain

// User mirrors a row of the users table. Identity is the ID alone; two users
// are equal iff their IDs are equal, never by mutable fields.
type User struct {
	ID       ID
	Username Username
	Email    Email
	Password Password
}

// NewUser creates a user with a freshly generated ID.
func NewUser(username Username, email Email, password Password) *User {
	return &User{
		ID:       NewID(),
		Username: username,
		Email:    email,
		Password: password,
	}
}

func (u *User) Equal(other *User) bool {
	return other != nil && u.ID == other.ID
}
