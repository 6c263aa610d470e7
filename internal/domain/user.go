package domain

// User is the authenticated identity exposed by the session provider. The
// workflow only reads it to namespace storage keys; it never manages the
// session lifecycle.
type User struct {
	ID    string
	Email string
	Plan  string
}

// Anonymous reports whether the user carries no identity.
func (u User) Anonymous() bool {
	return u.ID == ""
}
