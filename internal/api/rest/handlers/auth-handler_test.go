package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SundayYogurt/auth_service/config"
	"github.com/SundayYogurt/auth_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/auth_service/internal/domain"
	"github.com/SundayYogurt/auth_service/internal/helper"
	"github.com/SundayYogurt/auth_service/internal/repository"
	"github.com/SundayYogurt/auth_service/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserRepo struct {
	nextID uint
	users  map[uint]domain.User
}

func (r *memoryUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, repository.ErrEmailTaken
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return user, nil
}

func (r *memoryUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memoryUserRepo) FindUserByID(userID uint) (*domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryUserRepo) SaveUser(user *domain.User) error {
	r.users[user.ID] = *user
	return nil
}

type recordingMailer struct {
	bodies []string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.bodies = append(m.bodies, body)
	return nil
}

type discardProducer struct{}

func (discardProducer) PublishMessage(key, value []byte) error { return nil }

func newTestApp() (*fiber.App, *memoryUserRepo, *recordingMailer) {
	repo := &memoryUserRepo{users: map[uint]domain.User{}}
	mail := &recordingMailer{}
	auth := helper.SetupAuth("test-secret")
	svc := services.NewAuthService(repo, auth, mail, discardProducer{})

	app := fiber.New()
	NewAuthHandler(svc, auth, config.Config{}, middleware.NoopLimiter{}).SetupRoutes(app)
	return app, repo, mail
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func sessionCookieFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatal("no token cookie in response")
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	app, repo, mail := newTestApp()

	resp := postJSON(t, app, "/api/auth/register", fiber.Map{
		"name":     "Ada",
		"email":    "ada@x.com",
		"password": "secret1",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	cookie := sessionCookieFrom(t, resp)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	assert.Len(t, repo.users, 1)
	assert.Len(t, mail.bodies, 1)
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	app, repo, _ := newTestApp()

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"missing name", fiber.Map{"email": "ada@x.com", "password": "secret1"}},
		{"bad email", fiber.Map{"name": "Ada", "email": "nope", "password": "secret1"}},
		{"short password", fiber.Map{"name": "Ada", "email": "ada@x.com", "password": "123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/api/auth/register", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}

	assert.Empty(t, repo.users)
}

func TestRegisterEndpoint_Duplicate(t *testing.T) {
	app, _, _ := newTestApp()

	resp := postJSON(t, app, "/api/auth/register", fiber.Map{
		"name": "Ada", "email": "ada@x.com", "password": "secret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/register", fiber.Map{
		"name": "Eve", "email": "ada@x.com", "password": "secret2",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", decodeBody(t, resp)["message"])
}

func TestLogoutEndpoint_ClearsCookie(t *testing.T) {
	app, _, _ := newTestApp()

	resp := postJSON(t, app, "/api/auth/logout", fiber.Map{})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := sessionCookieFrom(t, resp)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}

func TestProtectedEndpoints_RequireSession(t *testing.T) {
	app, _, _ := newTestApp()

	for _, path := range []string{"/api/auth/send-otp", "/api/auth/verify-otp", "/api/auth/isAuth"} {
		resp := postJSON(t, app, path, fiber.Map{})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

// Full account lifecycle: register, bad login, good login, request a
// code, fail with the wrong code, verify with the right one.
func TestAccountVerificationFlow(t *testing.T) {
	app, repo, mail := newTestApp()

	resp := postJSON(t, app, "/api/auth/register", fiber.Map{
		"name": "Ada", "email": "ada@x.com", "password": "secret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", fiber.Map{
		"email": "ada@x.com", "password": "wrong-pass",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", decodeBody(t, resp)["message"])

	resp = postJSON(t, app, "/api/auth/login", fiber.Map{
		"email": "ada@x.com", "password": "secret1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	session := sessionCookieFrom(t, resp)

	resp = postJSON(t, app, "/api/auth/send-otp", fiber.Map{}, session)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var userID uint
	for id := range repo.users {
		userID = id
	}
	code := repo.users[userID].VerifyOtp
	require.Regexp(t, `^[0-9]{6}$`, code)
	require.NotEmpty(t, mail.bodies)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	resp = postJSON(t, app, "/api/auth/verify-otp", fiber.Map{"otp": wrong}, session)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid OTP", decodeBody(t, resp)["message"])

	resp = postJSON(t, app, "/api/auth/verify-otp", fiber.Map{"otp": code}, session)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, repo.users[userID].IsAccountVerified)

	// who-am-i reflects the verified account
	resp = postJSON(t, app, "/api/auth/isAuth", fiber.Map{}, session)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada@x.com", user["email"])
	assert.Equal(t, true, user["is_account_verified"])
}

func TestLoginEndpoint_UnknownUser(t *testing.T) {
	app, _, _ := newTestApp()

	resp := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email": "nobody@x.com", "password": "secret1",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User does not exist", decodeBody(t, resp)["message"])
}

func TestSendOtpEndpoint_AlreadyVerified(t *testing.T) {
	app, repo, _ := newTestApp()

	resp := postJSON(t, app, "/api/auth/register", fiber.Map{
		"name": "Ada", "email": "ada@x.com", "password": "secret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	session := sessionCookieFrom(t, resp)

	for id, u := range repo.users {
		u.IsAccountVerified = true
		repo.users[id] = u
	}

	resp = postJSON(t, app, "/api/auth/send-otp", fiber.Map{}, session)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Account is already verified", decodeBody(t, resp)["message"])
}
