package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sushihentaime/bloglist/internal/common"
)

type PostgresModel struct {
	db *sql.DB
}

func NewPostgresModel(db *sql.DB) *PostgresModel {
	return &PostgresModel{db: db}
}

// ForeignKeyError reports whether err is a foreign key constraint error on the named constraint.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// getAll returns blogs in insertion order with their owner joined in.
func (m *PostgresModel) getAll(ctx context.Context) ([]*BlogWithUser, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, u.id, u.username, u.name
		FROM blogs b
		LEFT JOIN users u ON b.user_id = u.id
		ORDER BY b.seq`

	rows, err := common.Executor(ctx, m.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []*BlogWithUser{}
	for rows.Next() {
		var (
			b                                 BlogWithUser
			ownerID, ownerUsername, ownerName sql.NullString
		)

		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &ownerID, &ownerUsername, &ownerName); err != nil {
			return nil, err
		}

		if ownerID.Valid {
			b.User = &UserSummary{ID: ownerID.String, Username: ownerUsername.String, Name: ownerName.String}
		}

		blogs = append(blogs, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *PostgresModel) get(ctx context.Context, id string) (*Blog, error) {
	bid, err := uuid.Parse(id)
	if err != nil {
		return nil, common.ErrRecordNotFound
	}

	query := `
		SELECT id, title, author, url, likes, user_id
		FROM blogs
		WHERE id = $1`

	var b Blog
	err = common.Executor(ctx, m.db).QueryRowContext(ctx, query, bid).Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.User)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

func (m *PostgresModel) insert(ctx context.Context, b *Blog) error {
	owner, err := uuid.Parse(b.User)
	if err != nil {
		return ErrUserForeignKey
	}

	query := `
		INSERT INTO blogs (id, title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)`

	id := uuid.New()

	_, err = common.Executor(ctx, m.db).ExecContext(ctx, query, id, b.Title, b.Author, b.URL, b.Likes, owner)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	b.ID = id.String()

	return nil
}

func (m *PostgresModel) update(ctx context.Context, id, title, author, url string, likes int) (*Blog, error) {
	bid, err := uuid.Parse(id)
	if err != nil {
		return nil, common.ErrRecordNotFound
	}

	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4
		WHERE id = $5
		RETURNING id, title, author, url, likes, user_id`

	var b Blog
	err = common.Executor(ctx, m.db).QueryRowContext(ctx, query, title, author, url, likes, bid).Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.User)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

func (m *PostgresModel) delete(ctx context.Context, id string) error {
	bid, err := uuid.Parse(id)
	if err != nil {
		return common.ErrRecordNotFound
	}

	res, err := common.Executor(ctx, m.db).ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, bid)
	if err != nil {
		return err
	}

	return expectOneRow(res, common.ErrRecordNotFound)
}

func (m *PostgresModel) addToUser(ctx context.Context, userID, blogID string) error {
	query := `
		UPDATE users
		SET blogs = array_append(blogs, $1::uuid)
		WHERE id = $2::uuid`

	res, err := common.Executor(ctx, m.db).ExecContext(ctx, query, blogID, userID)
	if err != nil {
		return err
	}

	return expectOneRow(res, ErrUserForeignKey)
}

func (m *PostgresModel) removeFromUser(ctx context.Context, userID, blogID string) error {
	query := `
		UPDATE users
		SET blogs = array_remove(blogs, $1::uuid)
		WHERE id = $2::uuid`

	res, err := common.Executor(ctx, m.db).ExecContext(ctx, query, blogID, userID)
	if err != nil {
		return err
	}

	return expectOneRow(res, ErrUserForeignKey)
}

func expectOneRow(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	switch {
	case rows == 0:
		return notFound
	case rows > 1:
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	}

	return nil
}
