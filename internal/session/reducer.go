package session

// State is what the store holds.
type State struct {
	Session *Session
	Loading bool
}

// Reduce applies a change to a state. It has no side effects.
func Reduce(st State, ch Change) State {
	next := State{Session: st.Session, Loading: false}
	switch ch.Event {
	case EventSignedOut:
		next.Session = nil
	case EventInitialSession, EventSignedIn, EventTokenRefreshed, EventUserUpdated, EventPasswordRecovery:
		next.Session = ch.Session
		if !next.Session.Valid() {
			next.Session = nil
		}
	}
	return next
}
