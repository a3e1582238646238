package identity

import (
	"net/http"

	"mercato/utils"
)

// SessionHeader carries the anonymous-cart key before a user logs in.
const SessionHeader = "X-Session-ID"

// Identity is the explicit per-request identity every cart/order operation
// receives as a parameter. Exactly one of UserID or SessionID is set.
type Identity struct {
	UserID    string
	SessionID string
}

func (id Identity) IsUser() bool      { return id.UserID != "" }
func (id Identity) IsAnonymous() bool { return id.UserID == "" && id.SessionID != "" }
func (id Identity) IsZero() bool      { return id.UserID == "" && id.SessionID == "" }

// FromRequest resolves the identity once, at the handler boundary: the
// authenticated user id if the token middleware attached one, else the
// session header.
func FromRequest(r *http.Request) Identity {
	if uid := utils.GetUserIDFromRequest(r); uid != "" {
		return Identity{UserID: uid}
	}
	return Identity{SessionID: r.Header.Get(SessionHeader)}
}
