package evolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/evolve/pkg/evolve"
	"github.com/randalmurphal/evolve/pkg/evolve/event"
)

// The email fixture domain: a store whose v1 schema had a composite
// "added and confirmed" event, since split into separate added/confirmed
// events, plus an unrelated message event the email adapter drops.

type emailAdded struct {
	Email string `json:"email"`
}

func (emailAdded) EventName() string             { return "email.added" }
func (emailAdded) EventRevision() event.Revision { return 3 }

type emailConfirmed struct {
	ConfirmedBy string `json:"confirmed_by"`
}

func (emailConfirmed) EventName() string             { return "email.confirmed" }
func (emailConfirmed) EventRevision() event.Revision { return 3 }

type emailAddedAndConfirmedV1 struct {
	Email       string `json:"email"`
	ConfirmedBy string `json:"confirmed_by,omitempty"`
}

func (emailAddedAndConfirmedV1) EventName() string             { return "email.added_and_confirmed" }
func (emailAddedAndConfirmedV1) EventRevision() event.Revision { return 1 }

type messagePosted struct {
	Text string `json:"text"`
}

func (messagePosted) EventName() string             { return "message.posted" }
func (messagePosted) EventRevision() event.Revision { return 1 }

// storageEmail is the email adapter's uniform output item.
type storageEmail struct {
	Kind  string
	Value string
}

func added(email string) storageEmail  { return storageEmail{Kind: "added", Value: email} }
func confirmed(by string) storageEmail { return storageEmail{Kind: "confirmed", Value: by} }

type noCtx = struct{}

func newEmailRegistry(t *testing.T) *event.Registry {
	t.Helper()
	r := event.NewRegistry()
	r.MustRegister(
		event.Descriptor{Name: "email.added", Revision: 3},
		event.Descriptor{Name: "email.confirmed", Revision: 3},
		event.Descriptor{Name: "email.added_and_confirmed", Revision: 1},
		event.Descriptor{Name: "message.posted", Revision: 1},
	)
	return r
}

// newEmailAdapter compiles the adapter used throughout the transform tests:
// added/confirmed pass through, the composite v1 event is split into its
// modern parts, and message events are dropped.
func newEmailAdapter(t *testing.T) *evolve.Adapter[noCtx, storageEmail] {
	t.Helper()

	adapter, err := evolve.New[noCtx, storageEmail]("email", newEmailRegistry(t)).
		Bind(evolve.BindConvert[noCtx](func(ev emailAdded) storageEmail {
			return added(ev.Email)
		})).
		Bind(evolve.BindConvert[noCtx](func(ev emailConfirmed) storageEmail {
			return confirmed(ev.ConfirmedBy)
		})).
		Bind(evolve.BindSplit[noCtx](func(ev emailAddedAndConfirmedV1) []storageEmail {
			out := []storageEmail{added(ev.Email)}
			if ev.ConfirmedBy != "" {
				out = append(out, confirmed(ev.ConfirmedBy))
			}
			return out
		})).
		Bind(evolve.BindSkip[noCtx, messagePosted, storageEmail]()).
		Compile()
	require.NoError(t, err)
	return adapter
}

// The chat fixture domain: v1 chats predate the private/public distinction
// and upcast to private chats.

type chatCreatedV1 struct{}

func (chatCreatedV1) EventName() string             { return "chat.created" }
func (chatCreatedV1) EventRevision() event.Revision { return 1 }

type privateChatCreated struct{}

func (privateChatCreated) EventName() string             { return "chat.private.created" }
func (privateChatCreated) EventRevision() event.Revision { return 2 }

func newChatRegistry(t *testing.T) *event.Registry {
	t.Helper()
	r := event.NewRegistry()
	r.MustRegister(
		event.Descriptor{Name: "chat.created", Revision: 1},
		event.Descriptor{Name: "chat.private.created", Revision: 2},
	)
	return r
}
