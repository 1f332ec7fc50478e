package bus

import "time"

// Event kinds published by the client. Subscribers filter by prefix, so
// "state." receives every store mutation and "session." every auth change.
const (
	SessionStatusChanged = "session.status_changed"
	SessionCleared       = "session.cleared"

	RouterNavigated = "router.navigated"

	StateDataSet       = "state.data.set"
	StateSidebarSet    = "state.sidebar.set"
	StateSidebarAdded  = "state.sidebar.added"
	StateContactsSet   = "state.contacts.set"
	StateContactAdded  = "state.contacts.added"
	StateContactUpdate = "state.contacts.updated"
	StateContactRemove = "state.contacts.removed"
	StateGroupsSet     = "state.groups.set"
	StateGroupCurrent  = "state.groups.current"
	StateGroupAdded    = "state.groups.added"
	StateGroupUpdate   = "state.groups.updated"
	StateGroupRemove   = "state.groups.removed"
	StateMessagesSet   = "state.groups.messages.set"
	StateMessageAdded  = "state.groups.messages.added"
	StateLoading       = "state.loading"
)

// Event represents a client-side change published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
