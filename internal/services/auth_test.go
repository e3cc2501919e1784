package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/ctxutil"
)

const testSecret = "test-secret-key-0123456789"

func newAuth(t *testing.T, f *fixture) AuthService {
	t.Helper()
	as, err := NewAuthService(f.log, f.users, f.sessions, AuthConfig{JWTSecretKey: testSecret, SessionTTL: time.Hour, GuestEnabled: true})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return as
}

func seedLoginUser(t *testing.T, f *fixture, email, password, status string) *types.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := f.users.Create(dbcOf(context.Background()), &types.User{Name: "Ana", Email: email, Password: hash, Role: types.RoleAdmin, Status: status})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestNewAuthServiceRejectsShortSecret(t *testing.T) {
	f := newFixture(t)
	if _, err := NewAuthService(f.log, f.users, f.sessions, AuthConfig{JWTSecretKey: "short"}); err == nil {
		t.Fatalf("expected error for short secret")
	}
}

func TestLoginAndResolveToken(t *testing.T) {
	f := newFixture(t)
	as := newAuth(t, f)
	u := seedLoginUser(t, f, "admin@scacompany.com", "s3creto", types.StatusActive)
	ctx := context.Background()

	res, err := as.Login(ctx, " ADMIN@scacompany.com ", "s3creto")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.ID != u.ID || res.Token == "" || res.SessionToken == "" {
		t.Fatalf("unexpected login result %+v", res)
	}

	for name, tok := range map[string]string{"jwt": res.Token, "session": res.SessionToken} {
		got, err := as.SetContextFromToken(ctx, tok)
		if err != nil {
			t.Fatalf("%s: SetContextFromToken: %v", name, err)
		}
		rd := ctxutil.GetRequestData(got)
		if rd == nil || rd.UserID != u.ID || !rd.IsAdmin() || rd.SessionToken != res.SessionToken {
			t.Fatalf("%s: unexpected request data %+v", name, rd)
		}
	}

	_, err = as.SetContextFromToken(ctx, res.Token+"x")
	requireCode(t, err, http.StatusUnauthorized, "invalid_token")

	authed, _ := as.SetContextFromToken(ctx, res.Token)
	if err := as.Logout(authed); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = as.SetContextFromToken(ctx, res.Token)
	requireCode(t, err, http.StatusUnauthorized, "session_expired")
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	as := newAuth(t, f)
	seedLoginUser(t, f, "admin@scacompany.com", "s3creto", types.StatusActive)
	seedLoginUser(t, f, "baja@scacompany.com", "s3creto", types.StatusInactive)
	ctx := context.Background()

	_, err := as.Login(ctx, "admin@scacompany.com", "wrong")
	requireCode(t, err, http.StatusUnauthorized, "invalid_credentials")

	_, err = as.Login(ctx, "nadie@scacompany.com", "s3creto")
	requireCode(t, err, http.StatusUnauthorized, "invalid_credentials")

	_, err = as.Login(ctx, "baja@scacompany.com", "s3creto")
	requireCode(t, err, http.StatusForbidden, "user_inactive")

	_, err = as.Login(ctx, "", "")
	requireCode(t, err, http.StatusBadRequest, "credentials_required")
}

func TestGuestLogin(t *testing.T) {
	f := newFixture(t)
	as := newAuth(t, f)
	ctx := context.Background()

	first, err := as.Login(ctx, "guest", "guest")
	if err != nil {
		t.Fatalf("guest login: %v", err)
	}
	if first.User.Role != types.RoleUser || first.User.Email != guestEmail {
		t.Fatalf("unexpected guest user %+v", first.User)
	}
	second, err := as.Login(ctx, "guest", "guest")
	if err != nil {
		t.Fatalf("second guest login: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("guest user should be reused")
	}
	if n, _ := f.users.Count(dbcOf(ctx)); n != 1 {
		t.Fatalf("expected a single guest row, got %d", n)
	}
}

func TestDeactivatedUserTokenRejected(t *testing.T) {
	f := newFixture(t)
	as := newAuth(t, f)
	u := seedLoginUser(t, f, "admin@scacompany.com", "s3creto", types.StatusActive)
	ctx := context.Background()

	res, err := as.Login(ctx, "admin@scacompany.com", "s3creto")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := f.users.UpdateFields(dbcOf(ctx), u.ID, map[string]interface{}{"status": types.StatusInactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, err = as.SetContextFromToken(ctx, res.Token)
	requireCode(t, err, http.StatusUnauthorized, "user_inactive")
}
