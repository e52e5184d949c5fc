package validation

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignupForm struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,hasupper,hasdigit"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type ChangePasswordForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,hasupper,hasdigit"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

type AdminForm struct {
	Email string `json:"email" validate:"required,email"`
}

// ListForm constrains the sorting of the all-companies listing.
type ListForm struct {
	Page   int    `json:"page" validate:"gte=1"`
	Limit  int    `json:"limit" validate:"gte=1,lte=100"`
	SortBy string `json:"sortBy" validate:"oneof=name capital created_at"`
	Order  string `json:"order" validate:"oneof=ASC DESC"`
}
