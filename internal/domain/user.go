package domain

import "context"

// User represents a registered user
// swagger:model User
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(email, name string) *User {
	return &User{
		Email: email,
		Name:  name,
	}
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	ListByIDs(ctx context.Context, ids []int64, params PaginationParams) ([]*User, error)
	Delete(ctx context.Context, id int64) error
}

// UserService defines the admin-facing user operations.
type UserService interface {
	CreateUser(ctx context.Context, user *User) error
	GetUsers(ctx context.Context, ids []int64, params PaginationParams) ([]*User, error)
	DeleteUser(ctx context.Context, id int64) error
}
