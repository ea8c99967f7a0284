package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/daoforge/governance-api/internal/constants"
	"github.com/daoforge/governance-api/internal/dto"
	apierrors "github.com/daoforge/governance-api/internal/errors"
)

func TestAuthHandler_Signup(t *testing.T) {
	env := setupTestEnv(t)

	body := map[string]string{
		"username": "newuser",
		"password": "longenough",
	}
	c, w := testContext(t, http.MethodPost, "/api/auth/signup", body, 0)

	env.authHandler.Signup(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "newuser", resp.Username)
	require.NotZero(t, resp.ID)
}

func TestAuthHandler_Signup_UsernameTaken(t *testing.T) {
	env := setupTestEnv(t)

	body := map[string]string{
		"username": "dupe",
		"password": "longenough",
	}
	c, w := testContext(t, http.MethodPost, "/api/auth/signup", body, 0)
	env.authHandler.Signup(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = testContext(t, http.MethodPost, "/api/auth/signup", body, 0)
	env.authHandler.Signup(c)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, apierrors.ErrCodeAlreadyExists, responseErrorCode(t, w))
}

func TestAuthHandler_Signup_PasswordTooShort(t *testing.T) {
	env := setupTestEnv(t)

	body := map[string]string{
		"username": "shorty",
		"password": "tiny",
	}
	c, w := testContext(t, http.MethodPost, "/api/auth/signup", body, 0)

	env.authHandler.Signup(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

// authRouter wires the auth handler behind session middleware, which Login
// and Logout depend on.
func authRouter(env testEnv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.POST("/api/auth/signup", env.authHandler.Signup)
	r.POST("/api/auth/login", env.authHandler.Login)
	r.POST("/api/auth/logout", env.authHandler.Logout)

	return r
}

func postJSON(t *testing.T, r *gin.Engine, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	r := authRouter(env)

	creds := map[string]string{
		"username": "returning",
		"password": "longenough",
	}
	w := postJSON(t, r, "/api/auth/signup", creds)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", creds)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Result().Cookies())

	var resp dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "returning", resp.Username)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	r := authRouter(env)

	w := postJSON(t, r, "/api/auth/signup", map[string]string{
		"username": "victim",
		"password": "longenough",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "victim",
		"password": "wrongwrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupTestEnv(t)
	r := authRouter(env)

	w := postJSON(t, r, "/api/auth/logout", map[string]string{})
	require.Equal(t, http.StatusOK, w.Code)
}
