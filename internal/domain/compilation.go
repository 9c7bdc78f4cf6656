package domain

import "context"

// Compilation is a curated, optionally pinned set of events.
// swagger:model Compilation
type Compilation struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Pinned bool     `json:"pinned"`
	Events []*Event `json:"events"`
}

// CompilationRepository defines storage operations for compilations.
type CompilationRepository interface {
	Create(ctx context.Context, compilation *Compilation, eventIDs []int64) error
	GetByID(ctx context.Context, id int64) (*Compilation, error)
	List(ctx context.Context, pinned *bool, params PaginationParams) ([]*Compilation, error)
	Delete(ctx context.Context, id int64) error
	AddEvent(ctx context.Context, compilationID, eventID int64) error
	RemoveEvent(ctx context.Context, compilationID, eventID int64) error
	SetPinned(ctx context.Context, id int64, pinned bool) error
	ContainsEvent(ctx context.Context, compilationID, eventID int64) (bool, error)
}

// CompilationService defines admin and public compilation operations.
type CompilationService interface {
	CreateCompilation(ctx context.Context, title string, pinned bool, eventIDs []int64) (*Compilation, error)
	DeleteCompilation(ctx context.Context, id int64) error
	AddEventToCompilation(ctx context.Context, compilationID, eventID int64) error
	RemoveEventFromCompilation(ctx context.Context, compilationID, eventID int64) error
	PinCompilation(ctx context.Context, id int64, pinned bool) error
	GetCompilation(ctx context.Context, id int64) (*Compilation, error)
	ListCompilations(ctx context.Context, pinned *bool, params PaginationParams) ([]*Compilation, error)
}
