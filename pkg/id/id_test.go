package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: NewAt with another timestamp resets the monotonic entropy.
func TestNewIsSortable(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		assert.Len(t, next, 26)
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestNewAtRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 4, 14, 30, 0, 123e6, time.UTC)
	s := NewAt(at)

	got, err := Time(s)
	require.NoError(t, err)
	assert.True(t, got.Equal(at), got)

	assert.Less(t, NewAt(at.Add(-time.Hour)), s)
}

func TestTimeInvalid(t *testing.T) {
	t.Parallel()

	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
