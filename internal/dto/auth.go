package dto

// SignupCar optionally registers a first car together with the account.
type SignupCar struct {
	Brand        string `json:"brand" binding:"required"`
	Model        string `json:"model" binding:"required"`
	LicensePlate string `json:"licensePlate" binding:"required"`
}

type SignupRequest struct {
	Email     string     `json:"email" binding:"required,email"`
	Password  string     `json:"password" binding:"required,min=8,max=100"`
	FirstName string     `json:"firstName" binding:"omitempty,max=50"`
	LastName  string     `json:"lastName" binding:"omitempty,max=50"`
	Car       *SignupCar `json:"car" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type FacebookLoginRequest struct {
	AccessToken string `json:"accessToken" binding:"required"`
}

type RefreshRequest struct {
	UserID       uint   `json:"userId" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

// AuthResponse is the login/signup projection. Password and refresh-token
// hashes never appear here.
type AuthResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         UserPublic `json:"user"`
}

type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
