package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/wholesale-backend/pkg/config"
	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
	"github.com/angelmondragon/wholesale-backend/pkg/security"
)

const MinPasswordLength = 6

// Service covers the profile endpoints and admin user management.
type Service interface {
	Profile(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileInput) (*UserDTO, error)
	List(ctx context.Context, params pagination.Params) (pagination.Page[UserDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, input AdminUpdateInput) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetPermissions(ctx context.Context, id uuid.UUID, permissions []string) (*UserDTO, error)
}

// sessionRevoker signs users out when they are removed or deactivated.
type sessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

type ServiceParams struct {
	Repo     *Repository
	Sessions sessionRevoker
	Password config.PasswordConfig
	Logger   *logger.Logger
}

type service struct {
	repo     *Repository
	sessions sessionRevoker
	password config.PasswordConfig
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session revoker required")
	}
	return &service{
		repo:     params.Repo,
		sessions: params.Sessions,
		password: params.Password,
		logg:     params.Logger,
	}, nil
}

func (s *service) Profile(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	return s.Get(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileInput) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyIdentity(user, input.Name, input.Email); err != nil {
		return nil, err
	}
	if input.Password != nil {
		if len(*input.Password) < MinPasswordLength {
			return nil, fieldError("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
		}
		hash, err := security.HashPassword(*input.Password, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, mapWriteError(err, "update profile")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[UserDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[UserDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, params, cursor)
	if err != nil {
		return pagination.Page[UserDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	page := pagination.Trim(rows, params.Limit, func(u models.User) pagination.Cursor {
		return pagination.Cursor{CreatedAt: u.CreatedAt, ID: u.ID}
	})
	return pagination.Map(page, func(u models.User) UserDTO { return *FromModel(&u) }), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input AdminUpdateInput) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyIdentity(user, input.Name, input.Email); err != nil {
		return nil, err
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, fieldError("role", fmt.Sprintf("invalid role %q", *input.Role))
		}
		user.Role = *input.Role
	}
	deactivated := false
	if input.IsActive != nil {
		deactivated = user.IsActive && !*input.IsActive
		user.IsActive = *input.IsActive
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, mapWriteError(err, "update user")
	}
	if deactivated {
		if err := s.sessions.RevokeAll(ctx, user.ID.String()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke sessions")
		}
	}
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "delete user")
	}
	if err := s.sessions.RevokeAll(ctx, id.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke sessions")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "deleted_user_id", id.String()), "user.deleted")
	}
	return nil
}

// SetPermissions replaces the permission list. Values are trimmed, deduplicated and sorted.
func (s *service) SetPermissions(ctx context.Context, id uuid.UUID, permissions []string) (*UserDTO, error) {
	seen := map[string]struct{}{}
	cleaned := make([]string, 0, len(permissions))
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		cleaned = append(cleaned, p)
	}
	sort.Strings(cleaned)

	if err := s.repo.UpdatePermissions(ctx, id, cleaned); err != nil {
		return nil, mapWriteError(err, "update permissions")
	}
	return s.Get(ctx, id)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func applyIdentity(user *models.User, name, email *string) error {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return fieldError("name", "name is required")
		}
		user.Name = trimmed
	}
	if email != nil {
		normalized, err := NormalizeEmail(*email)
		if err != nil {
			return err
		}
		user.Email = normalized
	}
	return nil
}

// NormalizeEmail trims, lowercases and checks the address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return "", fieldError("email", "please provide a valid email")
	}
	return email, nil
}

func mapWriteError(err error, step string) error {
	if errors.Is(err, ErrEmailTaken) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "user with this email already exists")
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
