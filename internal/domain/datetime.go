package domain

import "time"

// DateTime is an instant normalized to UTC. It backs created_at fields and
// the expiry timestamps the rotation check is derived from.
type DateTime struct {
	value time.Time
}

// Now captures the current instant.
func Now() DateTime {
	return DateTime{value: time.Now().UTC()}
}

// DateTimeFromUnix builds a DateTime from unix seconds, as carried in JWT
// exp claims. Fractional seconds are preserved.
func DateTimeFromUnix(seconds float64) (DateTime, error) {
	if seconds <= 0 {
		return DateTime{}, validation("datetime", "unix timestamp must be positive")
	}
	sec := int64(seconds)
	nsec := int64((seconds - float64(sec)) * float64(time.Second))
	return DateTime{value: time.Unix(sec, nsec).UTC()}, nil
}

// DateTimeFromString parses an RFC3339 timestamp, the format the session
// store persists created_at in.
func DateTimeFromString(raw string) (DateTime, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return DateTime{}, validation("datetime", "is not a valid RFC3339 timestamp")
	}
	return DateTime{value: t.UTC()}, nil
}

func (d DateTime) Value() time.Time { return d.value }
func (d DateTime) Unix() float64    { return float64(d.value.UnixNano()) / float64(time.Second) }
func (d DateTime) String() string   { return d.value.Format(time.RFC3339Nano) }
func (d DateTime) IsZero() bool     { return d.value.IsZero() }
