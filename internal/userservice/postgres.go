package userservice

import (
	"context"
	"database/sql"
	"errors"

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

// uniqueViolation reports whether err is a unique constraint error on the named constraint.
func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}

	return false
}

func (m *PostgresModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, username, name, password_hash)
		VALUES ($1, $2, $3, $4)`

	id := uuid.New()

	_, err := common.Executor(ctx, m.db).ExecContext(ctx, query, id, u.Username, u.Name, u.Password.hash)
	if err != nil {
		switch {
		case uniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		default:
			return err
		}
	}

	u.ID = id.String()
	u.Blogs = []string{}

	return nil
}

func (m *PostgresModel) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User

	err := common.Executor(ctx, m.db).QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Name, &u.Password.hash, pq.Array(&u.Blogs))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if u.Blogs == nil {
		u.Blogs = []string{}
	}

	return &u, nil
}

func (m *PostgresModel) getByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, common.ErrRecordNotFound
	}

	query := `
		SELECT id, username, name, password_hash, blogs
		FROM users
		WHERE id = $1`

	return m.scanOne(ctx, query, uid)
}

func (m *PostgresModel) getByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, name, password_hash, blogs
		FROM users
		WHERE username = $1`

	return m.scanOne(ctx, query, username)
}

func (m *PostgresModel) getAll(ctx context.Context) ([]*UserWithBlogs, error) {
	query := `
		SELECT id, username, name, blogs
		FROM users
		ORDER BY created_at`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type row struct {
		user  *UserWithBlogs
		blogs []string
	}

	var (
		list []row
		ids  []string
	)
	for rows.Next() {
		var r row
		r.user = &UserWithBlogs{}
		if err := rows.Scan(&r.user.ID, &r.user.Username, &r.user.Name, pq.Array(&r.blogs)); err != nil {
			return nil, err
		}
		list = append(list, r)
		ids = append(ids, r.blogs...)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	found := make(map[string]BlogSummary)
	if len(ids) > 0 {
		brows, err := m.db.QueryContext(ctx, `SELECT id, title, author, url FROM blogs WHERE id = ANY($1::uuid[])`, pq.Array(ids))
		if err != nil {
			return nil, err
		}
		defer brows.Close()

		for brows.Next() {
			var b BlogSummary
			if err := brows.Scan(&b.ID, &b.Title, &b.Author, &b.URL); err != nil {
				return nil, err
			}
			found[b.ID] = b
		}

		if err := brows.Err(); err != nil {
			return nil, err
		}
	}

	users := make([]*UserWithBlogs, 0, len(list))
	for _, r := range list {
		r.user.Blogs = resolveBlogs(r.blogs, found)
		users = append(users, r.user)
	}

	return users, nil
}
