package blogservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrMissingInfo = common.NewClientError(http.StatusBadRequest, "Info is missing")
)

// NewBlogService wires the blog store. mb may be nil, in which case no events are published.
func NewBlogService(m Model, tx common.TxManager, mb common.MessageProducer, logger *slog.Logger) *BlogService {
	return &BlogService{
		m:      m,
		tx:     tx,
		mb:     mb,
		logger: logger,
	}
}

// GetBlogs returns every blog with its owner's username and name.
func (s *BlogService) GetBlogs(ctx context.Context) ([]*BlogWithUser, error) {
	return s.m.getAll(ctx)
}

// CreateBlog stores a blog owned by owner and appends it to the owner's blogs.
func (s *BlogService) CreateBlog(ctx context.Context, input *CreateBlogInput, owner Owner) (*Blog, error) {
	blog := &Blog{
		Title:  input.Title,
		Author: input.Author,
		URL:    input.URL,
		User:   owner.ID,
	}

	if input.Likes != nil {
		blog.Likes = *input.Likes
	}

	v := common.NewValidator()
	validateBlog(v, blog)
	if err := v.Err(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.m.insert(ctx, blog); err != nil {
			return err
		}

		return s.m.addToUser(ctx, owner.ID, blog.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, blog, owner)

	return blog, nil
}

// publishCreated is best effort; the blog is already stored.
func (s *BlogService) publishCreated(ctx context.Context, blog *Blog, owner Owner) {
	if s.mb == nil {
		return
	}

	data, err := json.Marshal(common.BlogCreatedMessage{
		ID:       blog.ID,
		Title:    blog.Title,
		Author:   blog.Author,
		URL:      blog.URL,
		Username: owner.Username,
	})
	if err != nil {
		s.logger.Error("could not encode blog.created message", slog.String("error", err.Error()))
		return
	}

	if err := s.mb.Publish(ctx, data, common.BlogCreatedKey, common.BlogExchange); err != nil {
		s.logger.Error("could not publish blog.created message", slog.String("blog_id", blog.ID), slog.String("error", err.Error()))
	}
}

// DeleteBlog removes a blog. Only its owner may delete it.
func (s *BlogService) DeleteBlog(ctx context.Context, id, callerID string) error {
	blog, err := s.getOwned(ctx, id, callerID, "User is forbidden to delete post")
	if err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.m.delete(ctx, blog.ID); err != nil {
			return err
		}

		err := s.m.removeFromUser(ctx, blog.User, blog.ID)
		if errors.Is(err, ErrUserForeignKey) {
			// the owner is gone, nothing left to clean up
			return nil
		}
		return err
	})
	if errors.Is(err, common.ErrRecordNotFound) {
		// deleted concurrently
		return common.NotFoundError(id)
	}

	return err
}

// UpdateBlog replaces title, author, url and likes. Every field must be present
// and likes must not be negative. Values are stored as given.
func (s *BlogService) UpdateBlog(ctx context.Context, id string, input *UpdateBlogInput) (*Blog, error) {
	if input.Title == nil || input.Author == nil || input.URL == nil || input.Likes == nil {
		return nil, ErrMissingInfo
	}

	v := common.NewValidator()
	validateLikes(v, *input.Likes)
	if err := v.Err(); err != nil {
		return nil, err
	}

	blog, err := s.m.update(ctx, id, *input.Title, *input.Author, *input.URL, *input.Likes)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, common.NotFoundError(id)
		default:
			return nil, err
		}
	}

	return blog, nil
}

// UpdateOwnBlog is UpdateBlog restricted to the blog's owner.
func (s *BlogService) UpdateOwnBlog(ctx context.Context, id string, input *UpdateBlogInput, callerID string) (*Blog, error) {
	if input.Title == nil || input.Author == nil || input.URL == nil || input.Likes == nil {
		return nil, ErrMissingInfo
	}

	if _, err := s.getOwned(ctx, id, callerID, "User is forbidden to update post"); err != nil {
		return nil, err
	}

	return s.UpdateBlog(ctx, id, input)
}

func (s *BlogService) getOwned(ctx context.Context, id, callerID, forbidden string) (*Blog, error) {
	blog, err := s.m.get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, common.NotFoundError(id)
		default:
			return nil, err
		}
	}

	if blog.User != callerID {
		return nil, common.ForbiddenError(forbidden)
	}

	return blog, nil
}
