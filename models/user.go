package models

// User is one registered account in the flat-file store. Password holds the
// bcrypt hash at rest and the plaintext only while decoding a request body.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}
