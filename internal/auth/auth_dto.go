package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type AuthResponse struct {
	ID               string `json:"id"`
	EmployeeCode     string `json:"employee_id,omitempty"`
	FullName         string `json:"full_name"`
	OfficialEmail    string `json:"official_email"`
	Role             string `json:"role"`
	OnboardingStatus string `json:"onboarding_status"`
}
