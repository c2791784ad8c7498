package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow_IsUTC(t *testing.T) {
	d := Now()
	assert.Equal(t, time.UTC, d.Value().Location())
	assert.WithinDuration(t, time.Now().UTC(), d.Value(), time.Second)
}

func TestDateTimeFromUnix(t *testing.T) {
	d, err := DateTimeFromUnix(1700000000)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), d.Value().Unix())
	assert.Equal(t, time.UTC, d.Value().Location())
}

func TestDateTimeFromUnix_Invalid(t *testing.T) {
	for _, v := range []float64{0, -1} {
		_, err := DateTimeFromUnix(v)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	}
}

func TestDateTimeFromString_RoundTrip(t *testing.T) {
	orig := Now()
	parsed, err := DateTimeFromString(orig.String())
	require.NoError(t, err)
	assert.True(t, orig.Value().Equal(parsed.Value()))
}

func TestDateTimeFromString_Invalid(t *testing.T) {
	_, err := DateTimeFromString("yesterday")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}
