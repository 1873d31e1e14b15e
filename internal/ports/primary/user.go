package primary

import "context"

// UserService defines the primary port for the user directory backing
// permission lookups.
type UserService interface {
	// CreateUser registers a user with a permission level.
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*User, error)
}

// User represents a user at the port boundary.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	FacilityID string `json:"facilityId"`
	Permission string `json:"permission"` // e.g. "6.5"
}

// CreateUserRequest contains the fields for a new user.
// An empty ID lets the service assign one.
type CreateUserRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Department string `json:"department"`
	FacilityID string `json:"facilityId"`
	Permission string `json:"permission"`
}
