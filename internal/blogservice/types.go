package blogservice

import (
	"log/slog"

	"github.com/sushihentaime/bloglist/internal/common"
)

type Blog struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	User   string `json:"user"`
}

// UserSummary is the owner as embedded in a blog listing.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type BlogWithUser struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Author string       `json:"author"`
	URL    string       `json:"url"`
	Likes  int          `json:"likes"`
	User   *UserSummary `json:"user"`
}

// Owner identifies the authenticated caller creating a blog.
type Owner struct {
	ID       string
	Username string
}

type CreateBlogInput struct {
	Title  string
	Author string
	URL    string
	Likes  *int
}

// UpdateBlogInput fields are nil when absent from the request.
type UpdateBlogInput struct {
	Title  *string
	Author *string
	URL    *string
	Likes  *int
}

type BlogService struct {
	m      Model
	tx     common.TxManager
	mb     common.MessageProducer
	logger *slog.Logger
}
