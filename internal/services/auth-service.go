package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SundayYogurt/auth_service/internal/domain"
	"github.com/SundayYogurt/auth_service/internal/dto"
	"github.com/SundayYogurt/auth_service/internal/helper"
	"github.com/SundayYogurt/auth_service/internal/interfaces"
	"github.com/SundayYogurt/auth_service/internal/repository"
)

var (
	ErrBadCredentials  = errors.New("invalid credentials")
	ErrAlreadyVerified = errors.New("account is already verified")
	ErrOtpRequired     = errors.New("otp is required")
	ErrInvalidOtp      = errors.New("invalid otp")
	ErrOtpExpired      = errors.New("otp expired")
)

type AuthService interface {
	Register(input dto.RegisterRequest) (*domain.User, string, error)
	Login(input dto.UserLogin) (*domain.User, string, error)
	SendVerifyOtp(userID uint) error
	VerifyOtp(userID uint, otp string) error
	GetProfile(userID uint) (*domain.User, error)
}

type authService struct {
	repo     repository.UserRepository
	auth     helper.Auth
	mailer   interfaces.Mailer
	producer interfaces.ProducerHandler
}

func NewAuthService(
	repo repository.UserRepository,
	auth helper.Auth,
	mailer interfaces.Mailer,
	producer interfaces.ProducerHandler,
) AuthService {
	return &authService{
		repo:     repo,
		auth:     auth,
		mailer:   mailer,
		producer: producer,
	}
}

// Register creates the account, issues a session token and sends a
// welcome mail. The row is persisted before the mail attempt: a delivery
// failure fails the request but keeps the account, and send-otp remains
// independently retriable afterwards.
func (s *authService) Register(input dto.RegisterRequest) (*domain.User, string, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, "", errors.New("invalid inputs")
	}

	existing, err := s.repo.FindUserByEmail(input.Email)
	if err == nil && existing != nil && existing.ID != 0 {
		return nil, "", repository.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	hashedPassword, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	newUser := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         "user",
	}

	usr, err := s.repo.CreateUser(newUser)
	if err != nil {
		return nil, "", err
	}
	if usr == nil || usr.ID == 0 {
		return nil, "", errors.New("failed to create user")
	}

	token, err := s.auth.GenerateToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	if s.producer != nil {
		payload := fmt.Sprintf(
			`{"user_id":%d,"email":"%s","created_at":"%s"}`,
			usr.ID, usr.Email, usr.CreatedAt.Format(time.RFC3339),
		)
		_ = s.producer.PublishMessage([]byte("user.registered"), []byte(payload))
	}

	body := fmt.Sprintf(
		"Hello %s, welcome! Request a one-time code to verify your account.",
		usr.Name,
	)
	if err := s.mailer.Send(usr.Email, "Verify your account", body); err != nil {
		log.Printf("welcome mail to %s failed: %v", usr.Email, err)
		return nil, "", err
	}

	return usr, token, nil
}

func (s *authService) Login(input dto.UserLogin) (*domain.User, string, error) {
	if input.Email == "" || input.Password == "" {
		return nil, "", ErrBadCredentials
	}

	user, err := s.repo.FindUserByEmail(input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", repository.ErrUserNotFound
		}
		return nil, "", err
	}

	if err := s.auth.VerifyPassword(input.Password, user.PasswordHash); err != nil {
		return nil, "", ErrBadCredentials
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// SendVerifyOtp stores a fresh code before mailing it, so a delivery
// failure leaves a redeemable code behind and the call can simply be
// retried. Concurrent calls are last-write-wins on the single row.
func (s *authService) SendVerifyOtp(userID uint) error {
	if userID == 0 {
		return errors.New("invalid user id")
	}

	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return err
	}

	if user.IsAccountVerified {
		return ErrAlreadyVerified
	}

	otp, expireAt, err := helper.GenerateOtp()
	if err != nil {
		return err
	}

	user.VerifyOtp = otp
	user.VerifyOtpExpireAt = expireAt

	if err := s.repo.SaveUser(user); err != nil {
		return err
	}

	body := fmt.Sprintf("Hello %s, your OTP is %s", user.Name, otp)
	if err := s.mailer.Send(user.Email, "Verify your account", body); err != nil {
		log.Printf("otp mail to %s failed: %v", user.Email, err)
		return err
	}

	return nil
}

// VerifyOtp checks existence, then code match, then expiry; a wrong code
// and an expired-but-matching code fail differently. A successful match
// consumes the code so it cannot be replayed.
func (s *authService) VerifyOtp(userID uint, otp string) error {
	if otp == "" {
		return ErrOtpRequired
	}

	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return err
	}

	if user.VerifyOtp == "" || user.VerifyOtp != otp {
		return ErrInvalidOtp
	}

	if user.VerifyOtpExpireAt < time.Now().UnixMilli() {
		return ErrOtpExpired
	}

	user.IsAccountVerified = true
	user.VerifyOtp = ""
	user.VerifyOtpExpireAt = 0

	if err := s.repo.SaveUser(user); err != nil {
		return err
	}

	if s.producer != nil {
		payload := fmt.Sprintf(`{"user_id":%d,"email":"%s"}`, user.ID, user.Email)
		_ = s.producer.PublishMessage([]byte("user.verified"), []byte(payload))
	}

	return nil
}

func (s *authService) GetProfile(userID uint) (*domain.User, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}

	return s.repo.FindUserByID(userID)
}
