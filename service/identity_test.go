package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/YasaminRahnavard/chatFlow/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveRequest(svc *IdentityService, cookie *http.Cookie, authHeader string) (model.Owner, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c.Request = req
	return svc.Resolve(c), w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestResolveGuestStableAcrossCalls(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewIdentityService(NewMemorySessionStore())

	first, w := resolveRequest(svc, nil, "")
	require.Equal(t, model.OwnerKindGuest, first.OwnerKind)
	require.NotEmpty(t, first.OwnerID)

	cookie := sessionCookie(t, w)
	for i := 0; i < 3; i++ {
		owner, _ := resolveRequest(svc, cookie, "")
		assert.Equal(t, first.OwnerID, owner.OwnerID)
	}
}

func TestResolveGuestSessionsDoNotCollide(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewIdentityService(NewMemorySessionStore())

	a, _ := resolveRequest(svc, nil, "")
	b, _ := resolveRequest(svc, nil, "")
	assert.NotEqual(t, a.OwnerID, b.OwnerID)
}

func TestResolveAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("ACCESS_SECRET", "test-secret")

	ts := &TokenService{}
	td, err := ts.CreateToken(42)
	require.NoError(t, err)

	svc := NewIdentityService(NewMemorySessionStore())
	owner, _ := resolveRequest(svc, nil, "Bearer "+td.AccessToken)
	assert.Equal(t, model.OwnerKindUser, owner.OwnerKind)
	assert.Equal(t, "42", owner.OwnerID)
}

func TestResolveInvalidTokenFallsBackToGuest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("ACCESS_SECRET", "test-secret")

	svc := NewIdentityService(NewMemorySessionStore())
	owner, _ := resolveRequest(svc, nil, "Bearer not-a-token")
	assert.Equal(t, model.OwnerKindGuest, owner.OwnerKind)
	assert.NotEmpty(t, owner.OwnerID)
}
