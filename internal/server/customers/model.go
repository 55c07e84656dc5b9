package customers

import "fmt"

// Role is the closed set of authorization roles a customer can hold.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

// String returns the storage representation of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	default:
		return "USER"
	}
}

// ParseRole converts the storage representation back into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "USER":
		return RoleUser, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return RoleUser, fmt.Errorf("unknown role %q", s)
	}
}

// Customer is the persisted account record. PasswordHash always holds a
// bcrypt hash, never the plaintext. ID is assigned by the store on insert
// and stable afterwards. An empty ProfilePicID means no picture was
// uploaded yet.
type Customer struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Age          int
	PasswordHash string
	Role         Role
	ProfilePicID string
}

// View is the redacted representation handed to callers outside the
// service: everything except the password hash.
type View struct {
	ID           int64    `json:"id"`
	FirstName    string   `json:"firstname"`
	LastName     string   `json:"lastname"`
	Email        string   `json:"email"`
	Age          int      `json:"age"`
	Roles        []string `json:"roles"`
	ProfilePicID string   `json:"profile_pic_id,omitempty"`
}

// NewView redacts a customer record.
func NewView(c *Customer) View {
	return View{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Age:          c.Age,
		Roles:        []string{c.Role.String()},
		ProfilePicID: c.ProfilePicID,
	}
}

// Registration carries the data needed to create a new customer account.
type Registration struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Age       int    `json:"age"`
}

// UpdateRequest is a field-by-field patch. Blank strings mean "leave
// unchanged"; ages outside [18,75] are ignored rather than applied.
type UpdateRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
}
