package handlers

import (
	"errors"
	"time"

	"github.com/SundayYogurt/auth_service/config"
	"github.com/SundayYogurt/auth_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/auth_service/internal/domain"
	"github.com/SundayYogurt/auth_service/internal/dto"
	"github.com/SundayYogurt/auth_service/internal/helper"
	"github.com/SundayYogurt/auth_service/internal/helper/utils"
	"github.com/SundayYogurt/auth_service/internal/repository"
	"github.com/SundayYogurt/auth_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

const sessionCookie = "token"

type AuthHandler struct {
	svc     services.AuthService
	auth    helper.Auth
	cfg     config.Config
	limiter middleware.AttemptLimiter
}

func NewAuthHandler(svc services.AuthService, auth helper.Auth, cfg config.Config, limiter middleware.AttemptLimiter) *AuthHandler {
	return &AuthHandler{svc: svc, auth: auth, cfg: cfg, limiter: limiter}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", middleware.LimitAttempts(h.limiter), h.Login)
	auth.Post("/logout", h.Logout)

	sessionAuth := middleware.AuthMiddleware(h.auth)
	auth.Post("/send-otp", sessionAuth, middleware.LimitAttempts(h.limiter), h.SendOtp)
	auth.Post("/verify-otp", sessionAuth, h.VerifyOtp)
	auth.Post("/isAuth", sessionAuth, h.IsAuthenticated)
	auth.Get("/me", sessionAuth, h.IsAuthenticated)
}

func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := helper.ValidateStruct(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	user, token, err := h.svc.Register(requestBody)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "User already exists")
		}
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	h.setSessionCookie(ctx, token)

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "User created successfully", fiber.Map{
		"token": token,
		"user":  toProfile(user),
	})
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	if err := helper.ValidateStruct(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	_, token, err := h.svc.Login(requestBody)
	if err != nil {
		// Distinct messages preserved from the original surface; note
		// this leaks account existence.
		if errors.Is(err, repository.ErrUserNotFound) {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "User does not exist")
		}
		if errors.Is(err, services.ErrBadCredentials) {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid credentials")
		}
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	h.setSessionCookie(ctx, token)

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Login successful", nil)
}

func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	h.clearSessionCookie(ctx)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) SendOtp(ctx *fiber.Ctx) error {
	userID, err := h.auth.GetCurrentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := h.svc.SendVerifyOtp(userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return utils.ResponseError(ctx, fiber.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrAlreadyVerified):
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Account is already verified")
		default:
			return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "OTP sent successfully", nil)
}

func (h *AuthHandler) VerifyOtp(ctx *fiber.Ctx) error {
	userID, err := h.auth.GetCurrentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	var requestBody dto.VerifyOtpRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Otp == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "OTP is required")
	}

	if err := h.svc.VerifyOtp(userID, requestBody.Otp); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return utils.ResponseError(ctx, fiber.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrOtpRequired):
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "OTP is required")
		case errors.Is(err, services.ErrInvalidOtp):
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Invalid OTP")
		case errors.Is(err, services.ErrOtpExpired):
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "OTP expired")
		default:
			return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Account verified successfully", nil)
}

func (h *AuthHandler) IsAuthenticated(ctx *fiber.Ctx) error {
	userID, err := h.auth.GetCurrentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.svc.GetProfile(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return utils.ResponseError(ctx, fiber.StatusNotFound, "User not found")
		}
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Authenticated", fiber.Map{
		"user": toProfile(user),
	})
}

func (h *AuthHandler) setSessionCookie(ctx *fiber.Ctx, token string) {
	sameSite := "Strict"
	if h.cfg.IsProd() {
		sameSite = "None"
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		HTTPOnly: true,
		Secure:   h.cfg.IsProd(),
		SameSite: sameSite,
		MaxAge:   int(helper.TokenTTL.Seconds()),
	})
}

func (h *AuthHandler) clearSessionCookie(ctx *fiber.Ctx) {
	sameSite := "Strict"
	if h.cfg.IsProd() {
		sameSite = "None"
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   h.cfg.IsProd(),
		SameSite: sameSite,
		Expires:  time.Now().Add(-time.Hour),
	})
}

func toProfile(user *domain.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		IsAccountVerified: user.IsAccountVerified,
		Role:              user.Role,
		CreatedAt:         user.CreatedAt.Format(time.RFC3339),
	}
}
