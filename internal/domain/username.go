package domain

import (
	"regexp"
	"strings"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)

// Username is a case-sensitive handle, 3-30 chars of [A-Za-z0-9_.].
type Username struct {
	value string
}

func NewUsername(raw string) (Username, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Username{}, validation("username", "must be a non-empty string")
	}
	if !usernameRe.MatchString(trimmed) {
		return Username{}, validation("username", "must be 3-30 characters of letters, digits, '_' or '.'")
	}
	return Username{value: trimmed}, nil
}

func (u Username) Value() string  { return u.value }
func (u Username) String() string { return u.value }
