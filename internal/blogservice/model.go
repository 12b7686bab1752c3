package blogservice

import (
	"context"
	"errors"
)

var (
	ErrUserForeignKey = errors.New("user_id does not exist")
)

// Model is the blog store. The owner's blogs list lives with the user record,
// so addToUser and removeFromUser touch the user store.
type Model interface {
	getAll(ctx context.Context) ([]*BlogWithUser, error)
	get(ctx context.Context, id string) (*Blog, error)
	insert(ctx context.Context, b *Blog) error
	update(ctx context.Context, id, title, author, url string, likes int) (*Blog, error)
	delete(ctx context.Context, id string) error
	addToUser(ctx context.Context, userID, blogID string) error
	removeFromUser(ctx context.Context, userID, blogID string) error
}
