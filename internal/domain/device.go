package domain

import "strings"

// Device identifies the client a session was created from, typically the
// raw user-agent string.
type Device struct {
	value string
}

func NewDevice(raw string) (Device, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Device{}, validation("device", "must be a non-empty string")
	}
	return Device{value: trimmed}, nil
}

func (d Device) Value() string  { return d.value }
func (d Device) String() string { return d.value }
