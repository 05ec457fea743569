package session

// DefaultTokenKey is the store key holding the raw session token
const DefaultTokenKey = "token"

// Credentials are the login form fields sent to the collaborator
type Credentials struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}
