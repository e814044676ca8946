package domain

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`

	// Email verification. VerifyOtp is "" and VerifyOtpExpireAt is 0
	// when no verification is pending. Expiry is epoch milliseconds.
	IsAccountVerified bool   `gorm:"not null;default:false" json:"is_account_verified"`
	VerifyOtp         string `gorm:"default:''" json:"-"`
	VerifyOtpExpireAt int64  `gorm:"default:0" json:"-"`

	// Reserved for the password reset flow, not used by any operation yet.
	ResetOtp           string `gorm:"default:''" json:"-"`
	ResetOtpExpireAt   int64  `gorm:"default:0" json:"-"`
	IsResetOtpVerified bool   `gorm:"not null;default:false" json:"-"`

	Role string `gorm:"type:varchar(20);not null;default:user" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
