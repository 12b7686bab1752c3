package userservice

import (
	"context"
	"errors"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
)

// Model is the user store. Implementations exist for MongoDB and PostgreSQL.
type Model interface {
	insert(ctx context.Context, u *User) error
	getByID(ctx context.Context, id string) (*User, error)
	getByUsername(ctx context.Context, username string) (*User, error)
	getAll(ctx context.Context) ([]*UserWithBlogs, error)
}

// resolveBlogs keeps the order of ids and skips the ones missing from found.
func resolveBlogs(ids []string, found map[string]BlogSummary) []BlogSummary {
	blogs := make([]BlogSummary, 0, len(ids))
	for _, id := range ids {
		if b, ok := found[id]; ok {
			blogs = append(blogs, b)
		}
	}
	return blogs
}
