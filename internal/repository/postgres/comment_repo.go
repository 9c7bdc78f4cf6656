package postgres

import (
	"context"
	"database/sql"
	"errors"

	"explorewithme/internal/domain"
)

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{
		DB: db,
	}
}

const commentColumns = `id, event_id, commentor_id, text, rating, created`

func scanComment(row interface{ Scan(...any) error }) (*domain.Comment, error) {
	c := &domain.Comment{}
	err := row.Scan(&c.ID, &c.EventID, &c.CommentorID, &c.Text, &c.Rating, &c.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO comments (event_id, commentor_id, text, rating, created)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		comment.EventID, comment.CommentorID, comment.Text, comment.Rating, comment.Created,
	).Scan(&comment.ID)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE comments SET text = $1, rating = $2 WHERE id = $3`,
		comment.Text, comment.Rating, comment.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	return scanComment(r.DB.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *commentRepository) GetByCommentorAndEvent(ctx context.Context, commentorID, eventID int64) (*domain.Comment, error) {
	return scanComment(r.DB.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE commentor_id = $1 AND event_id = $2`,
		commentorID, eventID))
}

func (r *commentRepository) Search(ctx context.Context, text string, params domain.PaginationParams) ([]*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments`
	args := []any{}
	if text != "" {
		query += ` WHERE text ILIKE $1 ORDER BY created DESC LIMIT $2 OFFSET $3`
		args = append(args, "%"+text+"%", params.Limit(), params.Offset())
	} else {
		query += ` ORDER BY created DESC LIMIT $1 OFFSET $2`
		args = append(args, params.Limit(), params.Offset())
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
