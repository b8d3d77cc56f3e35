package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/token-service/internal/api/http/handlers"
	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/domain"
	"github.com/spec-kit/token-service/internal/observability"
	"github.com/spec-kit/token-service/internal/persistence"
	"github.com/spec-kit/token-service/internal/service"
	"github.com/spec-kit/token-service/internal/store"
	"github.com/spec-kit/token-service/pkg/util"
	"go.uber.org/zap"
)

type staticDirectory struct{}

func (staticDirectory) Authenticate(_ context.Context, username, password string) (*domain.User, error) {
	if username != "alice" || password != "hunter2" {
		return nil, util.NewBadCredentials()
	}
	return &domain.User{
		ID:          42,
		Username:    "alice",
		DisplayName: "Alice Example",
		Status:      domain.UserStatusActive,
	}, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{}
	cfg.Auth.Secret = "s3cr3t"
	cfg.Auth.Issuer = "http://example.test"
	cfg.Auth.TokenTTLDays = 28
	cfg.Tracking.Enabled = true
	cfg.CORS.Enabled = true
	cfg.CORS.AllowHeaders = "Content-Type, Authorization"

	tokens := service.NewTokenService(cfg, service.TokenDependencies{
		Directory: staticDirectory{},
		Tracking:  store.NewMemoryStore(),
		Clock:     auth.SystemClock(),
	})

	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 5*time.Second, cfg.CORS)
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("token-service", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Tokens:  handlers.NewTokensHandler(tokens),
		Bearer:  NewBearerMiddleware(tokens),
		Metrics: metrics,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp.StatusCode, payload
}

func issueToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/token", `{"username":"alice","password":"hunter2"}`, nil)
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestGenerateEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/token", `{"username":"alice","password":"hunter2"}`, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "Alice Example", body["user_display_name"])
	assert.NotZero(t, body["token_expires"])
	// Credentials never echo back.
	assert.NotContains(t, body, "user_email")
	assert.NotContains(t, body, "password")
}

func TestGenerateBadCredentialsEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/token", `{"username":"alice","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, util.CodeBadCredentials, errorCode(body))
}

func TestGenerateMissingFields(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/token", `{"username":"alice"}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestValidateEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := issueToken(t, app)

	status, body := doJSON(t, app, http.MethodPost, "/token/validate", "", map[string]string{
		fiber.HeaderAuthorization: "Bearer " + token,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "valid_token", body["code"])
}

func TestValidateEndpointRejectsMissingHeader(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/token/validate", "", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, util.CodeNoAuthHeader, errorCode(body))
}

func TestRegenAndRevokeEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := issueToken(t, app)

	status, body := doJSON(t, app, http.MethodPost, "/token/regen", "", map[string]string{
		fiber.HeaderAuthorization: "Bearer " + token,
	})
	require.Equal(t, http.StatusOK, status)
	regenerated, _ := body["token"].(string)
	require.NotEmpty(t, regenerated)

	status, body = doJSON(t, app, http.MethodPost, "/token/revoke", "", map[string]string{
		fiber.HeaderAuthorization: "Bearer " + token,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "token_revoked", body["code"])

	// Both the original and the regenerated token share the revoked
	// tracking id.
	for _, tok := range []string{token, regenerated} {
		status, body = doJSON(t, app, http.MethodPost, "/token/validate", "", map[string]string{
			fiber.HeaderAuthorization: "Bearer " + tok,
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, util.CodeTokenRevoked, errorCode(body))
	}
}

func TestBearerMiddlewareOnProtectedRoute(t *testing.T) {
	app := newTestApp(t)
	token := issueToken(t, app)

	// No header: the middleware has no opinion, the route requirement
	// rejects.
	status, _ := doJSON(t, app, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Malformed header: rejected by the middleware itself.
	status, body := doJSON(t, app, http.MethodGet, "/me", "", map[string]string{
		fiber.HeaderAuthorization: "Basic abc",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, util.CodeMalformedHeader, errorCode(body))

	status, body = doJSON(t, app, http.MethodGet, "/me", "", map[string]string{
		fiber.HeaderAuthorization: "Bearer " + token,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(42), body["user_id"])
}

func TestCORSHeaderInjection(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/token/validate", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "Content-Type, Authorization", resp.Header.Get(fiber.HeaderAccessControlAllowHeaders))
}
