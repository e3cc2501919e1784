package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserInput is a partial update; nil fields are left alone.
type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

type UserService interface {
	Me(ctx context.Context) (*types.User, error)
	List(ctx context.Context) ([]*types.User, error)
	Create(ctx context.Context, in CreateUserInput) (*types.User, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*types.User, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (*types.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	log         *logger.Logger
	userRepo    repos.UserRepo
	sessionRepo repos.SessionRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, sessionRepo repos.SessionRepo) UserService {
	return &userService{
		log:         log.With("service", "UserService"),
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

func validRole(role string) bool {
	return role == types.RoleAdmin || role == types.RoleUser
}

func validStatus(status string) bool {
	return status == types.StatusActive || status == types.StatusInactive
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil && strings.Contains(email, "@")
}

func (us *userService) Me(ctx context.Context) (*types.User, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	u, err := us.userRepo.GetByID(dbcOf(ctx), rd.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apierr.NotFound("user_not_found", "user %s", rd.UserID)
	}
	return u, nil
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return us.userRepo.List(dbcOf(ctx))
}

func (us *userService) Create(ctx context.Context, in CreateUserInput) (*types.User, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	in.Name, in.Email, in.Role = clean(in.Name), strings.ToLower(clean(in.Email)), clean(in.Role)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apierr.Invalid("user_fields_required", "name, email and password are required")
	}
	if !validEmail(in.Email) {
		return nil, apierr.Invalid("email_invalid", "invalid email %q", in.Email)
	}
	if in.Role == "" {
		in.Role = types.RoleUser
	}
	if !validRole(in.Role) {
		return nil, apierr.Invalid("role_invalid", "role must be admin or user")
	}

	dbc := dbcOf(ctx)
	exists, err := us.userRepo.EmailExists(dbc, in.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierr.Conflict("email_taken", "email %s already registered", in.Email)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := us.userRepo.Create(dbc, &types.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
		Status:   types.StatusActive,
	})
	if err != nil {
		return nil, conflictOnDuplicate(err, "email_taken", "email %s already registered", in.Email)
	}
	us.log.Info("User created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (us *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*types.User, error) {
	rd, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbcOf(ctx)
	existing, err := us.userRepo.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.NotFound("user_not_found", "user %s", id)
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := clean(*in.Name)
		if name == "" {
			return nil, apierr.Invalid("name_required", "name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Email != nil {
		email := strings.ToLower(clean(*in.Email))
		if !validEmail(email) {
			return nil, apierr.Invalid("email_invalid", "invalid email %q", email)
		}
		exists, err := us.userRepo.EmailExists(dbc, email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apierr.Conflict("email_taken", "email %s already registered", email)
		}
		updates["email"] = email
	}
	if in.Role != nil {
		role := clean(*in.Role)
		if !validRole(role) {
			return nil, apierr.Invalid("role_invalid", "role must be admin or user")
		}
		if id == rd.UserID && role != types.RoleAdmin {
			return nil, apierr.Invalid("cannot_demote_self", "administrators cannot remove their own admin role")
		}
		updates["role"] = role
	}
	if in.Status != nil {
		status := clean(*in.Status)
		if !validStatus(status) {
			return nil, apierr.Invalid("status_invalid", "status must be active or inactive")
		}
		if id == rd.UserID && status != types.StatusActive {
			return nil, apierr.Invalid("cannot_deactivate_self", "administrators cannot deactivate themselves")
		}
		updates["status"] = status
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}

	u, err := us.userRepo.UpdateFields(dbc, id, updates)
	if err != nil {
		return nil, conflictOnDuplicate(err, "email_taken", "email already registered")
	}
	if u != nil && (u.Status != existing.Status || u.Role != existing.Role || updates["password"] != nil) {
		us.revokeSessions(ctx, id)
	}
	return u, nil
}

func (us *userService) ToggleStatus(ctx context.Context, id uuid.UUID) (*types.User, error) {
	rd, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if id == rd.UserID {
		return nil, apierr.Invalid("cannot_deactivate_self", "administrators cannot deactivate themselves")
	}
	existing, err := us.userRepo.GetByID(dbcOf(ctx), id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.NotFound("user_not_found", "user %s", id)
	}
	next := types.StatusInactive
	if existing.Status == types.StatusInactive {
		next = types.StatusActive
	}
	u, err := us.userRepo.UpdateFields(dbcOf(ctx), id, map[string]interface{}{"status": next})
	if err != nil {
		return nil, err
	}
	if next == types.StatusInactive {
		us.revokeSessions(ctx, id)
	}
	us.log.Info("User status toggled", "user_id", id, "status", next)
	return u, nil
}

func (us *userService) Delete(ctx context.Context, id uuid.UUID) error {
	rd, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	if id == rd.UserID {
		return apierr.Invalid("cannot_delete_self", "administrators cannot delete themselves")
	}
	existing, err := us.userRepo.GetByID(dbcOf(ctx), id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apierr.NotFound("user_not_found", "user %s", id)
	}
	if err := us.userRepo.Delete(dbcOf(ctx), id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	us.revokeSessions(ctx, id)
	us.log.Info("User deleted", "user_id", id)
	return nil
}

func (us *userService) revokeSessions(ctx context.Context, id uuid.UUID) {
	if err := us.sessionRepo.DeleteByUser(dbcOf(ctx), id); err != nil {
		us.log.Warn("Failed to revoke user sessions", "user_id", id, "error", err)
	}
}
