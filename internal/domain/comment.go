package domain

import "context"

// Comment is feedback left on an event by a confirmed participant.
// swagger:model Comment
type Comment struct {
	ID          int64    `json:"id"`
	EventID     int64    `json:"event"`
	CommentorID int64    `json:"commentor"`
	Text        string   `json:"text"`
	Rating      int      `json:"rating"`
	Created     DateTime `json:"created"`
}

// CommentRepository defines storage operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	Update(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	GetByCommentorAndEvent(ctx context.Context, commentorID, eventID int64) (*Comment, error)
	Search(ctx context.Context, text string, params PaginationParams) ([]*Comment, error)
	Delete(ctx context.Context, id int64) error
}

// CommentService defines comment operations. Only users holding a confirmed
// request on a published event may comment, once per event.
type CommentService interface {
	CreateComment(ctx context.Context, userID, eventID int64, text string, rating int) (*Comment, error)
	PatchComment(ctx context.Context, userID, commentID int64, text string, rating int) (*Comment, error)
	DeleteComment(ctx context.Context, userID, commentID int64) error
	GetComment(ctx context.Context, commentID int64) (*Comment, error)
	SearchComments(ctx context.Context, text string, params PaginationParams) ([]*Comment, error)
}
