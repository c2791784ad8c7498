package domain

import "strings"

// Password holds a pre-hashed credential. The value object never sees
// plaintext; hashing happens at the service boundary before construction.
type Password struct {
	hashed string
}

func NewPassword(hashed string) (Password, error) {
	trimmed := strings.TrimSpace(hashed)
	if trimmed == "" {
		return Password{}, validation("password", "hash must be a non-empty string")
	}
	return Password{hashed: trimmed}, nil
}

func (p Password) Value() string { return p.hashed }
