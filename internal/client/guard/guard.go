// Package guard implements the per-navigation check gating access to
// protected views.
package guard

import (
	"context"

	"github.com/cloudsafe/cloudsafe/internal/client/session"
)

// Decision is the outcome of a single navigation check.
type Decision int

const (
	// Allowed renders the requested view.
	Allowed Decision = iota
	// Redirected sends the user to the login view; the originally requested
	// view is discarded.
	Redirected
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "redirected"
}

// Guard decides, per navigation, whether a protected view may render.
type Guard struct {
	store session.Store
}

func New(store session.Store) *Guard {
	return &Guard{store: store}
}

// Check re-reads the credential store and applies the both-or-neither
// predicate: a view renders only when token AND subject id are present.
// The result is never cached, so a session cleared elsewhere (another
// process, manual wipe) is detected on the next navigation. On Allowed the
// session is returned so the view can hand it to its gateway calls without
// a second read.
func (g *Guard) Check(ctx context.Context) (session.Session, Decision, error) {
	sess, err := g.store.Load(ctx)
	if err != nil {
		return session.Session{}, Redirected, err
	}
	if !sess.IsComplete() {
		return session.Session{}, Redirected, nil
	}
	return sess, Allowed, nil
}
