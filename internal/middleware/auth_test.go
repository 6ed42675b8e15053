package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/gadhub/internal/token"
)

const testSecret = "test-secret-test-secret-test-secret!"

func newGatedApp(t *testing.T, tokens *token.Issuer) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/protected", RequireAuth(tokens), func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"user_id": id})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	tokens := token.NewIssuer([]byte(testSecret), time.Hour)
	app := newGatedApp(t, tokens)

	status, body := doRequest(t, app, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.JSONEq(t, `{"message":"No token, authorization denied"}`, body)
}

func TestRequireAuthGarbageToken(t *testing.T) {
	tokens := token.NewIssuer([]byte(testSecret), time.Hour)
	app := newGatedApp(t, tokens)

	status, body := doRequest(t, app, "Bearer not.a.token")
	require.Equal(t, http.StatusUnauthorized, status)
	require.JSONEq(t, `{"message":"Invalid or expired token"}`, body)
}

func TestRequireAuthWrongSignature(t *testing.T) {
	other := token.NewIssuer([]byte("other-secret-other-secret-other-sec!"), time.Hour)
	forged, _, err := other.Issue(42)
	require.NoError(t, err)

	tokens := token.NewIssuer([]byte(testSecret), time.Hour)
	app := newGatedApp(t, tokens)

	status, body := doRequest(t, app, "Bearer "+forged)
	require.Equal(t, http.StatusUnauthorized, status)
	require.JSONEq(t, `{"message":"Invalid or expired token"}`, body)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	expired := token.NewIssuer([]byte(testSecret), -time.Minute)
	old, _, err := expired.Issue(42)
	require.NoError(t, err)

	tokens := token.NewIssuer([]byte(testSecret), time.Hour)
	app := newGatedApp(t, tokens)

	status, body := doRequest(t, app, "Bearer "+old)
	require.Equal(t, http.StatusUnauthorized, status)
	require.JSONEq(t, `{"message":"Invalid or expired token"}`, body)
}

// All verification failures collapse into one message so callers cannot
// distinguish a forged token from an expired one.
func TestRequireAuthFailureBodiesIdentical(t *testing.T) {
	tokens := token.NewIssuer([]byte(testSecret), time.Hour)
	app := newGatedApp(t, tokens)

	expired := token.NewIssuer([]byte(testSecret), -time.Minute)
	old, _, err := expired.Issue(7)
	require.NoError(t, err)

	other := token.NewIssuer([]byte("other-secret-other-secret-other-sec!"), time.Hour)
	forged, _, err := other.Issue(7)
	require.NoError(t, err)

	_, bodyGarbage := doRequest(t, app, "Bearer garbage")
	_, bodyExpired := doRequest(t, app, "Bearer "+old)
	_, bodyForged := doRequest(t, app, "Bearer "+forged)

	require.Equal(t, bodyGarbage, bodyExpired)
	require.Equal(t, bodyExpired, bodyForged)
}

func TestRequireAuthValidToken(t *testing.T) {
	tokens := token.NewIssuer([]byte(testSecret), time.Hour)
	app := newGatedApp(t, tokens)

	tok, _, err := tokens.Issue(99)
	require.NoError(t, err)

	status, body := doRequest(t, app, "Bearer "+tok)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, fmt.Sprintf(`{"user_id":%d}`, 99), body)
}

func TestRequireAuthBareTokenWithoutBearerPrefix(t *testing.T) {
	tokens := token.NewIssuer([]byte(testSecret), time.Hour)
	app := newGatedApp(t, tokens)

	tok, _, err := tokens.Issue(5)
	require.NoError(t, err)

	status, _ := doRequest(t, app, tok)
	require.Equal(t, http.StatusOK, status)
}
