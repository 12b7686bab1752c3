package userservice

import (
	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	AnonymousUser = &User{}
)

type UserService struct {
	m      Model
	tokens *TokenMaker
	c      *common.Cache
}

type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Password Password `json:"-"`
	Blogs    []string `json:"blogs"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte
}

// BlogSummary is the subset of a blog shown in a user listing.
type BlogSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

type UserWithBlogs struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Name     string        `json:"name"`
	Blogs    []BlogSummary `json:"blogs"`
}

type AuthToken struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
