package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/permission"
	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/ports/secondary"
)

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	users secondary.UserRepository
	now   Clock
}

// NewUserService creates a new UserService with injected dependencies.
func NewUserService(users secondary.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users, now: SystemClock}
}

// CreateUser registers a user with a permission level.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.New(apperr.CodeValidation, "name is required")
	}
	p, err := permission.Parse(req.Permission)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, err, "invalid permission level")
	}

	id := req.ID
	if id == "" {
		id = "USR-" + uuid.NewString()[:8]
	}
	record := &secondary.UserRecord{
		ID:         id,
		Name:       name,
		Department: req.Department,
		FacilityID: req.FacilityID,
		Permission: p,
		CreatedAt:  s.now(),
	}
	if err := s.users.Create(ctx, record); err != nil {
		return nil, apperr.Internal(err, "failed to create user")
	}
	return recordToUser(record), nil
}

// GetUser retrieves a user by ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID string) (*primary.User, error) {
	record, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load user")
	}
	return recordToUser(record), nil
}

func recordToUser(r *secondary.UserRecord) *primary.User {
	return &primary.User{
		ID:         r.ID,
		Name:       r.Name,
		Department: r.Department,
		FacilityID: r.FacilityID,
		Permission: r.Permission.String(),
	}
}

// Ensure UserServiceImpl implements the interface
var _ primary.UserService = (*UserServiceImpl)(nil)
