// Package session implements the credential store: the (token, subject id)
// pair identifying the current authenticated user, persisted in the client's
// local database so it survives process restarts.
//
// The store enforces a both-or-neither invariant: a token is never persisted
// without its subject id and vice versa. Saving and clearing are transactional,
// so no partial-write state is observable to other calls in the same process.
// There is no expiry tracking, no refresh handling and no encryption; values
// are only as safe as the local storage sandbox.
package session

import "context"

// Session identifies the current authenticated user to the backend.
type Session struct {
	Token     string
	SubjectID string
}

// IsComplete reports whether both credentials are present. The route guard
// and the request builder both gate on this single predicate.
func (s Session) IsComplete() bool {
	return s.Token != "" && s.SubjectID != ""
}

// Store persists the Session.
type Store interface {
	// Save persists both values atomically. Partial sessions are rejected
	// with common.ErrPartialSession before anything is written.
	Save(ctx context.Context, s Session) error

	// Load returns the current session, or a zero Session if none is set.
	Load(ctx context.Context) (Session, error)

	// Clear removes both values in one transaction.
	Clear(ctx context.Context) error
}
