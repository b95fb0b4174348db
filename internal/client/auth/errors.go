package auth

// AuthError is a rejected registration
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// Registration errors. Compare with errors.Is.
var (
	// ErrEmptyField - username или password пустые после TrimSpace
	ErrEmptyField = &AuthError{Reason: "username and password cannot be empty"}

	// ErrDuplicateUser - username уже зарегистрирован
	ErrDuplicateUser = &AuthError{Reason: "username already exists"}
)
