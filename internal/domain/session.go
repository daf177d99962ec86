package domain

// User is the profile returned by GET /users/me.
// Only the server produces it.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// Valid reports whether the profile carries the required fields.
func (u User) Valid() bool {
	return u.ID != 0 && u.Email != ""
}

// Credentials is the token/profile pair produced by a successful login and
// mirrored by the durable credential record.
type Credentials struct {
	Token string
	User  User
}

// Session is a read-only snapshot of the authentication state.
//
// Invariant: Authenticated == (Token != "") and User is set iff Token is set.
type Session struct {
	Token         string `json:"-"`
	User          *User  `json:"user,omitempty"`
	Authenticated bool   `json:"authenticated"`
	Loading       bool   `json:"loading"`
	LastError     string `json:"error,omitempty"`
}
