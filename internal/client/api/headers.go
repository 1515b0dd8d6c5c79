package api

import (
	"net/http"

	"github.com/cloudsafe/cloudsafe/internal/client/session"
	"github.com/cloudsafe/cloudsafe/internal/common"
)

// authHeaders builds the headers for an authenticated backend call from the
// given session. It applies the same both-or-neither predicate as the route
// guard: an incomplete session fails fast with common.ErrUnauthenticated, so
// no unauthenticated request is ever put on the wire.
func authHeaders(sess session.Session) (http.Header, error) {
	if !sess.IsComplete() {
		return nil, common.ErrUnauthenticated
	}

	h := http.Header{}
	h.Set(common.AuthorizationHeaderName, common.BearerPrefix+sess.Token)
	h.Set(common.SubjectHeaderName, sess.SubjectID)
	return h, nil
}
