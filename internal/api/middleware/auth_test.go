package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookingweb/booking-api/internal/core/domain"
	"github.com/bookingweb/booking-api/internal/core/service"
)

const testSecret = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

type stubIdentities struct {
	identity *domain.Identity
	err      error
}

func (s *stubIdentities) LoadForAuthentication(_ context.Context, login string) (*domain.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.identity == nil || s.identity.Login != login {
		return nil, domain.ErrAccountNotFound
	}
	return s.identity, nil
}

func newCodec(t *testing.T) *service.TokenCodec {
	t.Helper()
	codec, err := service.NewTokenCodec(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return codec
}

func issue(t *testing.T, codec *service.TokenCodec, subject string, now time.Time) string {
	t.Helper()
	token, err := codec.Issue(subject, domain.ExtraClaims{Role: domain.RoleClient, AccountID: 1}, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}

func enabledIdentity(login string) *domain.Identity {
	return &domain.Identity{AccountID: 1, Login: login, Authority: domain.RoleClient, Enabled: true}
}

// runGate executes the middleware and reports whether next was reached.
func runGate(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, called, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	codec := newCodec(t)
	identities := &stubIdentities{identity: enabledIdentity("a@x.com")}
	token := issue(t, codec, "a@x.com", time.Now())

	c, called, err := runGate(t, Auth(codec, identities), "Bearer "+token)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	id, ok := IdentityFrom(c)
	if !ok || id.Login != "a@x.com" || id.Authority != domain.RoleClient {
		t.Fatalf("identity not attached: %+v", id)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	codec := newCodec(t)
	identities := &stubIdentities{identity: enabledIdentity("a@x.com")}
	token := issue(t, codec, "a@x.com", time.Now())

	_, called, err := runGate(t, Auth(codec, identities), "bearer "+token)
	if err != nil || !called {
		t.Fatalf("expected pass, err=%v called=%v", err, called)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	codec := newCodec(t)
	issuedAt := time.Now()
	token := issue(t, codec, "a@x.com", issuedAt)

	disabled := enabledIdentity("a@x.com")
	disabled.Enabled = false
	storeDown := errors.New("store down")

	tests := []struct {
		name       string
		header     string
		identities *stubIdentities
		now        time.Time
		want       error
	}{
		{name: "missing header", header: "", identities: &stubIdentities{}, want: domain.ErrUnauthenticated},
		{name: "wrong scheme", header: "Token " + token, identities: &stubIdentities{}, want: domain.ErrUnauthenticated},
		{name: "empty bearer", header: "Bearer ", identities: &stubIdentities{}, want: domain.ErrUnauthenticated},
		{name: "garbage token", header: "Bearer not.a.jwt", identities: &stubIdentities{}, want: domain.ErrInvalidToken},
		{
			name:       "expired",
			header:     "Bearer " + token,
			identities: &stubIdentities{identity: enabledIdentity("a@x.com")},
			now:        issuedAt.Add(2 * time.Hour),
			want:       domain.ErrExpiredToken,
		},
		{name: "unknown account", header: "Bearer " + token, identities: &stubIdentities{}, want: domain.ErrUnauthenticated},
		{name: "disabled account", header: "Bearer " + token, identities: &stubIdentities{identity: disabled}, want: domain.ErrAccountDisabled},
		{name: "store failure", header: "Bearer " + token, identities: &stubIdentities{err: storeDown}, want: storeDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			if now.IsZero() {
				now = issuedAt
			}
			mw := authWithClock(codec, tt.identities, func() time.Time { return now })

			_, called, err := runGate(t, mw, tt.header)
			if called {
				t.Fatalf("should not reach next")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthMiddleware_SubjectMismatch(t *testing.T) {
	codec := newCodec(t)
	token := issue(t, codec, "a@x.com", time.Now())

	// The loader resolves the subject to an identity with a different login.
	mismatch := &mismatchLoader{identity: enabledIdentity("b@x.com")}

	_, called, err := runGate(t, Auth(codec, mismatch), "Bearer "+token)
	if called || !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token, err=%v called=%v", err, called)
	}
}

type mismatchLoader struct {
	identity *domain.Identity
}

func (m *mismatchLoader) LoadForAuthentication(context.Context, string) (*domain.Identity, error) {
	return m.identity, nil
}
