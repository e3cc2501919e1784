package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/sca-inventory-backend/internal/platform/ctxutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

const (
	guestLogin    = "guest"
	guestEmail    = "invitado@scacompany.com"
	guestName     = "Usuario Invitado"
	jwtIssuer     = "sca-inventory"
	minSecretSize = 16
)

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

type JWTClaims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	Token        string      `json:"token"`
	SessionToken string      `json:"session_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         *types.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	SessionTTL() time.Duration
}

type AuthConfig struct {
	JWTSecretKey string
	SessionTTL   time.Duration
	GuestEnabled bool
}

type authService struct {
	log         *logger.Logger
	userRepo    repos.UserRepo
	sessionRepo repos.SessionRepo
	cfg         AuthConfig
	now         func() time.Time
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, sessionRepo repos.SessionRepo, cfg AuthConfig) (AuthService, error) {
	if len(cfg.JWTSecretKey) < minSecretSize {
		return nil, fmt.Errorf("JWT secret must be at least %d bytes", minSecretSize)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	return &authService{
		log:         log.With("service", "AuthService"),
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		now:         time.Now,
	}, nil
}

func (as *authService) SessionTTL() time.Duration { return as.cfg.SessionTTL }

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(clean(email))
	if email == "" || password == "" {
		return nil, apierr.Invalid("credentials_required", "email and password are required")
	}

	var user *types.User
	var err error
	if as.cfg.GuestEnabled && email == guestLogin && password == guestLogin {
		user, err = as.guestUser(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		user, err = as.userRepo.GetByEmail(dbcOf(ctx), email)
		if err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
		if user == nil {
			as.log.Info("Login failed; unknown email", "email", email)
			return nil, apierr.Unauthorized("invalid_credentials", "invalid email or password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			as.log.Info("Login failed; bad password", "user_id", user.ID)
			return nil, apierr.Unauthorized("invalid_credentials", "invalid email or password")
		}
	}
	if !user.IsActive() {
		return nil, apierr.Forbidden("user_inactive", "user account is inactive")
	}

	now := as.now().UTC()
	session := &types.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(as.cfg.SessionTTL),
	}
	if err := as.sessionRepo.Create(dbcOf(ctx), session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	token, err := as.signToken(user, session)
	if err != nil {
		return nil, err
	}
	as.log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: token, SessionToken: session.Token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// guestUser returns the shared guest account, creating or reactivating it.
func (as *authService) guestUser(ctx context.Context) (*types.User, error) {
	dbc := dbcOf(ctx)
	user, err := as.userRepo.GetByEmail(dbc, guestEmail)
	if err != nil {
		return nil, fmt.Errorf("load guest user: %w", err)
	}
	if user != nil {
		if user.Status != types.StatusActive || user.Role != types.RoleUser {
			return as.userRepo.UpdateFields(dbc, user.ID, map[string]interface{}{"status": types.StatusActive, "role": types.RoleUser})
		}
		return user, nil
	}
	// The guest can only enter through the guest/guest shortcut.
	hash, err := HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	user, err = as.userRepo.Create(dbc, &types.User{
		Name:     guestName,
		Email:    guestEmail,
		Password: hash,
		Role:     types.RoleUser,
		Status:   types.StatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("create guest user: %w", err)
	}
	as.log.Info("Guest user created", "user_id", user.ID)
	return user, nil
}

func (as *authService) signToken(user *types.User, s *types.Session) (string, error) {
	claims := JWTClaims{
		SessionID: s.Token,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionToken == "" {
		return apierr.Unauthorized("unauthenticated", "no session in context")
	}
	if err := as.sessionRepo.Delete(dbcOf(ctx), rd.SessionToken); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	as.log.Info("User logged out", "user_id", rd.UserID)
	return nil
}

// SetContextFromToken accepts a signed JWT or a bare session token. Either
// way the session must still exist and its user must be active; the role
// attached to the context is read from the user row.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = clean(tokenString)
	if tokenString == "" {
		return ctx, apierr.Unauthorized("missing_token", "missing session token")
	}

	sessionToken := tokenString
	if strings.Count(tokenString, ".") == 2 {
		claims := &JWTClaims{}
		parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(jwtIssuer), jwt.WithTimeFunc(as.now))
		_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(as.cfg.JWTSecretKey), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return ctx, apierr.Unauthorized("session_expired", "session expired")
			}
			return ctx, apierr.Unauthorized("invalid_token", "invalid token")
		}
		sessionToken = claims.SessionID
	}

	session, err := as.sessionRepo.Get(dbcOf(ctx), sessionToken)
	if err != nil {
		return ctx, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return ctx, apierr.Unauthorized("session_expired", "session expired or revoked")
	}
	user, err := as.userRepo.GetByID(dbcOf(ctx), session.UserID)
	if err != nil {
		return ctx, fmt.Errorf("load session user: %w", err)
	}
	if user == nil || !user.IsActive() {
		_ = as.sessionRepo.Delete(dbcOf(ctx), sessionToken)
		return ctx, apierr.Unauthorized("user_inactive", "user no longer active")
	}

	rd := &ctxutil.RequestData{
		TokenString:  tokenString,
		SessionToken: sessionToken,
		UserID:       user.ID,
		Role:         user.Role,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}
