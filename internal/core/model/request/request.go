package request

type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Password  string `json:"password" validate:"required,bytemax=72"`
}

// LoginRequest binds both JSON and the OAuth2 password form, where the email travels as username.
type LoginRequest struct {
	Email    string `json:"email" form:"username" validate:"required,max=255"`
	Password string `json:"password" form:"password" validate:"required,bytemax=72"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password" validate:"required,bytemax=72"`
	NewPassword        string `json:"new_password" validate:"required,min=6,bytemax=72"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,bytemax=72"`
}

type TaskRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH low medium high"`
}

// TaskUpdateRequest leaves absent fields nil so they stay untouched.
type TaskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH low medium high"`
}
