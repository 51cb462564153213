package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }

func signTestToken(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newStreamApp(secret string) *fiber.App {
	app := fiber.New()
	h := NewStreamHandler(nil, nil, quietLogger{}, secret)
	h.RegisterRoutes(app)
	return app
}

func TestStreamRouteLivesAtRoot(t *testing.T) {
	app := newStreamApp("test-secret")

	// The subscription path is /ws/:session_id with no /api prefix; a
	// missing token is rejected, not the route itself.
	resp, err := app.Test(httptest.NewRequest("GET", "/ws/"+uuid.New().String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/ws/"+uuid.New().String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandshakeFailsClosedWithoutSecret(t *testing.T) {
	app := newStreamApp("")

	// Even a well-formed token is rejected when no secret is configured:
	// nothing may verify against an empty key.
	token := signTestToken(t, "", uuid.New())
	req := httptest.NewRequest("GET", "/ws/"+uuid.New().String()+"?token="+token, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandshakeRejectsWrongSecret(t *testing.T) {
	app := newStreamApp("the-real-secret")

	token := signTestToken(t, "some-other-secret", uuid.New())
	req := httptest.NewRequest("GET", "/ws/"+uuid.New().String()+"?token="+token, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
