package models

// Role is the access level carried in a user's token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleEditor   Role = "editor"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// User represents a customer or back-office account.
type User struct {
	BaseModel
	Name         string  `json:"name"`
	Email        string  `gorm:"uniqueIndex" json:"email"`
	Phone        string  `json:"phone"`
	PasswordHash string  `json:"-"`
	Role         Role    `gorm:"type:varchar(16);default:customer" json:"role"`
	Orders       []Order `json:"orders,omitempty"`
}
