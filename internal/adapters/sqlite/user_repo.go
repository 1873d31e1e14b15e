package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/permission"
	"github.com/example/agenda/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
// Permission levels are stored doubled so the column stays integral.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	if !user.Permission.Valid() {
		return apperr.New(apperr.CodeValidation, "invalid permission level %s", user.Permission)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO users (id, name, department, facility_id, permission_x2, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Department, user.FacilityID, user.Permission.Doubled(), formatTime(user.CreatedAt),
	)
	if isUniqueViolation(err) {
		return apperr.New(apperr.CodeConflict, "user %s already exists", user.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, name, department, facility_id, permission_x2, created_at FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetPermissionLevel returns the permission level of a user.
func (r *UserRepository) GetPermissionLevel(ctx context.Context, id string) (permission.Level, error) {
	var doubled int
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT permission_x2 FROM users WHERE id = ?", id).Scan(&doubled)
	if errors.Is(err, sql.ErrNoRows) {
		return permission.None, apperr.NotFound("user", id)
	}
	if err != nil {
		return permission.None, fmt.Errorf("failed to get permission level: %w", err)
	}
	return permission.FromDoubled(doubled), nil
}

// ListByScope returns users in scope ordered by ID. MaxPermission is exclusive.
func (r *UserRepository) ListByScope(ctx context.Context, scope secondary.UserScope) ([]*secondary.UserRecord, error) {
	query := "SELECT id, name, department, facility_id, permission_x2, created_at FROM users WHERE permission_x2 >= ?"
	args := []any{scope.MinPermission.Doubled()}

	if scope.MaxPermission > permission.None {
		query += " AND permission_x2 < ?"
		args = append(args, scope.MaxPermission.Doubled())
	}
	if scope.UserID != "" {
		query += " AND id = ?"
		args = append(args, scope.UserID)
	}
	if scope.Department != "" {
		query += " AND department = ?"
		args = append(args, scope.Department)
	}
	if scope.FacilityID != "" {
		query += " AND facility_id = ?"
		args = append(args, scope.FacilityID)
	}
	query += " ORDER BY id"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*secondary.UserRecord
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (*secondary.UserRecord, error) {
	var (
		user      secondary.UserRecord
		doubled   int
		createdAt string
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Department, &user.FacilityID, &doubled, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	user.Permission = permission.FromDoubled(doubled)
	user.CreatedAt = t
	return &user, nil
}

var _ secondary.UserRepository = (*UserRepository)(nil)
