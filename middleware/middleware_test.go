package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"plateful/auth"
	"plateful/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoUserID(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Write([]byte(utils.GetUserIDFromRequest(r)))
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	token, err := auth.GenerateToken("user-123", "alice")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	Authenticate(echoUserID)(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-123", w.Body.String())
}

func TestAuthenticateRejectsMissingAndBadTokens(t *testing.T) {
	for _, header := range []string{"", "Bearer garbage", "Basic abc"} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()

		Authenticate(echoUserID)(w, r, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	OptionalAuth(echoUserID)(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestOptionalAuthDecodesTokenWhenPresent(t *testing.T) {
	token, err := auth.GenerateToken("user-456", "bob")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	OptionalAuth(echoUserID)(w, r, nil)

	assert.Equal(t, "user-456", w.Body.String())
}
