package models

// Session is the authenticated identity held by the client.
// Invariant: a non-nil User implies a non-empty Token and vice versa;
// Authenticated is the single place that checks both.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Authenticated reports whether both halves of the session are present.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}
