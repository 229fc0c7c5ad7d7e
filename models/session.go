package models

// Session is the authenticated identity context of a running client
// instance. Exactly one session is active per client at any time.
//
// A zero Session (Authenticated == false) represents the signed-out state;
// consumers must treat it as "no data visible".
type Session struct {
	// UserID is the opaque stable identifier issued by the identity provider.
	UserID int64

	// Authenticated reports whether the session currently holds a valid
	// identity. False after sign-out or token invalidation.
	Authenticated bool
}
