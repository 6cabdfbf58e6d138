package network

// Role is the access level carried on a user record.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleGuest     Role = "guest"
)

// Roles lists the accepted roles in display order.
var Roles = []Role{RoleAdmin, RoleUser, RoleModerator, RoleGuest}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Label is the capitalised name shown in selectors.
func (r Role) Label() string {
	if r == "" {
		return ""
	}
	s := string(r)
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// User is the wire shape of a user record. ID is assigned by the server.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at"`
}

// CreateUserRequest is the body of POST /user/create.
// A nil Age is sent as JSON null.
type CreateUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Age       *int   `json:"age"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Response is the envelope every endpoint answers with. Data is only
// present on logical success.
type Response[T any] struct {
	Message string `json:"message"`
	Data    *T     `json:"data,omitempty"`
}

// HealthInfo is the payload of GET /health.
type HealthInfo struct {
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
