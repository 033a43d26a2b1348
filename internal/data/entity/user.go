package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleStaff    UserRole = "staff"
)

type User struct {
	Base
	Username     string   `db:"username"`
	Email        string   `db:"email"`
	FirstName    string   `db:"first_name"`
	LastName     string   `db:"last_name"`
	PasswordHash string   `db:"password"`
	Phone        *string  `db:"phone"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}

// FullName falls back to the username when no name was given.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}
