package request

type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=150"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"first_name" validate:"max=150"`
	LastName  string  `json:"last_name" validate:"max=150"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=8,max=20"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
