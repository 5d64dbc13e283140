package event_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
)

// TestNewRaw serializes a concrete event with generated metadata.
func TestNewRaw(t *testing.T) {
	raw, err := event.NewRaw(added{Email: "a@b"})
	require.NoError(t, err)

	assert.Equal(t, "email.added", raw.Name)
	assert.Equal(t, event.Revision(3), raw.Revision)
	assert.JSONEq(t, `{"email":"a@b"}`, string(raw.Data))
	assert.NotEmpty(t, raw.Meta.EventID)
	assert.Equal(t, raw.Meta.EventID, raw.Meta.CorrelationID) // default correlation root
	assert.False(t, raw.Meta.Timestamp.IsZero())
}

// TestNewRaw_Options applies metadata options.
func TestNewRaw_Options(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	raw, err := event.NewRaw(added{Email: "a@b"},
		event.WithEventID("ev-1"),
		event.WithCorrelationID("corr-1"),
		event.WithCausationID("cause-1"),
		event.WithTimestamp(ts),
	)
	require.NoError(t, err)

	assert.Equal(t, "ev-1", raw.Meta.EventID)
	assert.Equal(t, "corr-1", raw.Meta.CorrelationID)
	assert.Equal(t, "cause-1", raw.Meta.CausationID)
	assert.Equal(t, ts, raw.Meta.Timestamp)
}

// TestAs_Match decodes a raw event whose name and revision both match.
func TestAs_Match(t *testing.T) {
	raw, err := event.NewRaw(added{Email: "a@b"})
	require.NoError(t, err)

	ev, err := event.As[added](raw)
	require.NoError(t, err)
	assert.Equal(t, added{Email: "a@b"}, ev)
}

// TestAs_Mismatch rejects a raw event unless both name and revision match.
// A matching name with a different revision is a different schema.
func TestAs_Mismatch(t *testing.T) {
	testCases := []struct {
		name string
		raw  event.Raw
	}{
		{"name mismatch", event.Raw{Name: "email.confirmed", Revision: 3, Data: []byte(`{}`)}},
		{"revision mismatch", event.Raw{Name: "email.added", Revision: 2, Data: []byte(`{}`)}},
		{"both mismatch", event.Raw{Name: "email.confirmed", Revision: 1, Data: []byte(`{}`)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := event.As[added](tc.raw)
			require.Error(t, err)

			var mismatch *event.MismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, event.Identity{Name: "email.added", Revision: 3}, mismatch.Want)
			assert.Equal(t, tc.raw.Identity(), mismatch.Got)
		})
	}
}

// TestAs_BadPayload surfaces decode failures.
func TestAs_BadPayload(t *testing.T) {
	raw := event.Raw{Name: "email.added", Revision: 3, Data: []byte(`{"email":`)}
	_, err := event.As[added](raw)
	assert.Error(t, err)
}
