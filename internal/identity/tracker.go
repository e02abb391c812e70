package identity

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Phase is the session bootstrap state. The tracker starts Uninitialized,
// moves to Loading once it begins consuming the identity event stream, and
// is Ready after the first event settles who (if anyone) is signed in.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// EventKind distinguishes sign-in from sign-out notifications.
type EventKind int

const (
	EventSignedIn EventKind = iota
	EventSignedOut
)

// Event is one identity-change notification from the external auth
// collaborator.
type Event struct {
	Kind      EventKind
	Principal *Principal // nil for sign-out
}

// Session is the tracker's externally visible state. Principal is nil until
// Ready, and nil while Ready if nobody is signed in.
type Session struct {
	Phase     Phase
	Principal *Principal
}

// Ready reports whether consumers may trust the principal value.
func (s Session) Ready() bool { return s.Phase == PhaseReady }

// Tracker holds the current session as an explicit state machine instead of
// an implicit mutable global. Consumers poll Current; the tracker itself is
// fed by Run consuming an event stream.
type Tracker struct {
	mu      sync.RWMutex
	session Session
	log     *zerolog.Logger
}

func NewTracker(logger *zerolog.Logger) *Tracker {
	trackLog := logger.With().Str("component", "IdentityTracker").Logger()
	return &Tracker{
		session: Session{Phase: PhaseUninitialized},
		log:     &trackLog,
	}
}

// Current returns a snapshot of the session state.
func (t *Tracker) Current() Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session
}

// Run consumes identity events until the context is cancelled or the
// channel closes. The first receive (or an immediately closed channel)
// settles the session into Ready.
func (t *Tracker) Run(ctx context.Context, events <-chan Event) error {
	t.setPhase(PhaseLoading, nil)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				// Stream ended: whatever we know is final.
				t.settle()
				return nil
			}
			t.apply(ev)
		}
	}
}

func (t *Tracker) apply(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch ev.Kind {
	case EventSignedIn:
		t.session = Session{Phase: PhaseReady, Principal: ev.Principal}
		if ev.Principal != nil {
			t.log.Debug().Str("principal_id", ev.Principal.ID).Msg("session signed in")
		}
	case EventSignedOut:
		t.session = Session{Phase: PhaseReady, Principal: nil}
		t.log.Debug().Msg("session signed out")
	}
}

func (t *Tracker) setPhase(p Phase, principal *Principal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = Session{Phase: p, Principal: principal}
}

func (t *Tracker) settle() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session.Phase != PhaseReady {
		t.session = Session{Phase: PhaseReady, Principal: t.session.Principal}
	}
}
