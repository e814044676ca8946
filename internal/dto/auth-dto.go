package dto

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=200"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required,min=6,max=200"`
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required,min=6,max=200"`
}

type VerifyOtpRequest struct {
	Otp string `json:"otp" validate:"required,len=6,numeric"`
}

type AuthResponse struct {
	UserID uint    `json:"user_id"`
	Iat    float64 `json:"iat"`
	Expiry float64 `json:"expiry"`
}

type UserProfileResponse struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	IsAccountVerified bool   `json:"is_account_verified"`
	Role              string `json:"role"`
	CreatedAt         string `json:"created_at"`
}
