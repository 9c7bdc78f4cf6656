package domain

import "context"

// Category classifies events. Names are unique.
// swagger:model Category
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryRepository defines the interface for category storage
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id int64) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context, params PaginationParams) ([]*Category, error)
	Delete(ctx context.Context, id int64) error
	CountEvents(ctx context.Context, id int64) (int, error)
}

// CategoryService defines admin and public category operations.
type CategoryService interface {
	CreateCategory(ctx context.Context, category *Category) error
	PatchCategory(ctx context.Context, category *Category) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategory(ctx context.Context, id int64) (*Category, error)
	ListCategories(ctx context.Context, params PaginationParams) ([]*Category, error)
}
