package domain

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]{1,64}@[A-Za-z0-9.-]{1,255}\.[A-Za-z]{2,}$`)

// Domains rejected at signup. Kept short on purpose; extend as abuse shows up.
var disposableDomains = map[string]struct{}{
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"tempmail.com":      {},
	"trashmail.com":     {},
	"yopmail.com":       {},
	"sharklasers.com":   {},
	"getnada.com":       {},
}

// Email is stored and compared in normalized (trimmed, lower-cased) form.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, validation("email", "must be a non-empty string")
	}
	if len(normalized) > 254 || !emailRe.MatchString(normalized) {
		return Email{}, validation("email", "is not a valid email address")
	}
	domain := normalized[strings.LastIndexByte(normalized, '@')+1:]
	if _, blocked := disposableDomains[domain]; blocked {
		return Email{}, validation("email", "disposable email domains are not allowed")
	}
	return Email{value: normalized}, nil
}

func (e Email) Value() string  { return e.value }
func (e Email) String() string { return e.value }
