package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
)

type added struct {
	Email string `json:"email"`
}

func (added) EventName() string             { return "email.added" }
func (added) EventRevision() event.Revision { return 3 }

type confirmed struct {
	ConfirmedBy string `json:"confirmed_by"`
}

func (confirmed) EventName() string             { return "email.confirmed" }
func (confirmed) EventRevision() event.Revision { return 3 }

// TestIdentity_String verifies the display form.
func TestIdentity_String(t *testing.T) {
	id := event.Identity{Name: "email.added", Revision: 3}
	assert.Equal(t, "email.added@r3", id.String())
}

// TestIdentity_Valid covers the validity rules.
func TestIdentity_Valid(t *testing.T) {
	testCases := []struct {
		name  string
		id    event.Identity
		valid bool
	}{
		{"complete", event.Identity{Name: "a", Revision: 1}, true},
		{"empty name", event.Identity{Revision: 1}, false},
		{"zero revision", event.Identity{Name: "a"}, false},
		{"zero value", event.Identity{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.id.Valid())
		})
	}
}

// TestIdentityOf derives the identity from the type's zero value.
func TestIdentityOf(t *testing.T) {
	id := event.IdentityOf[added]()
	assert.Equal(t, event.Identity{Name: "email.added", Revision: 3}, id)
}

// TestIdentityOfEvent derives the identity from a value.
func TestIdentityOfEvent(t *testing.T) {
	id := event.IdentityOfEvent(confirmed{ConfirmedBy: "x"})
	assert.Equal(t, event.Identity{Name: "email.confirmed", Revision: 3}, id)
}

// TestInitial_KeepsIdentity verifies the wrapper delegates identity.
func TestInitial_KeepsIdentity(t *testing.T) {
	ev := event.Initial[added]{Event: added{Email: "a@b"}}
	assert.Equal(t, "email.added", ev.EventName())
	assert.Equal(t, event.Revision(3), ev.EventRevision())
	assert.Equal(t, "a@b", ev.Event.Email)
}
