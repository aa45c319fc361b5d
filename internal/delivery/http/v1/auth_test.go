package v1_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/nalgeon/be"
)

func TestRegister(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"alice@example.com","password":"pass phrase"}`)
	be.Equal(t, w.Code, http.StatusCreated)

	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	be.Err(t, json.Unmarshal(w.Body.Bytes(), &resp), nil)
	be.True(t, resp.AccessToken != "")
	be.True(t, resp.RefreshToken != "")

	// The refresh token also travels as a cookie.
	cookies := w.Result().Cookies()
	var hasRefreshCookie bool
	for _, cookie := range cookies {
		if cookie.Name == "refresh_token" && cookie.Value != "" {
			hasRefreshCookie = true
		}
	}
	be.True(t, hasRefreshCookie)

	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"alice@example.com","password":"other phrase"}`)
	be.Equal(t, w.Code, http.StatusConflict)

	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"not-an-email","password":"pass phrase"}`)
	be.Equal(t, w.Code, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "bob@example.com")

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"bob@example.com","password":"pass phrase"}`)
	be.Equal(t, w.Code, http.StatusOK)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	be.Err(t, json.Unmarshal(w.Body.Bytes(), &resp), nil)
	be.True(t, resp.AccessToken != "")

	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"bob@example.com","password":"wrong phrase"}`)
	be.Equal(t, w.Code, http.StatusUnauthorized)

	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"nobody@example.com","password":"pass phrase"}`)
	be.Equal(t, w.Code, http.StatusUnauthorized)
}

func TestLogout(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "carol@example.com")

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/logout", token, "")
	be.Equal(t, w.Code, http.StatusNoContent)

	// The session is gone, so the token no longer authorizes anything.
	w = doRequest(t, router, http.MethodGet, "/api/v1/tasks", token, "")
	be.Equal(t, w.Code, http.StatusUnauthorized)
}
