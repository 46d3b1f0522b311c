package models

// Profile is the signed-in user as reported by the backend.
type Profile struct {
	ID    string
	Email string
	Name  string
}

// Credentials are used by login and register.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}
