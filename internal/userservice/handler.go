package userservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewUserService(m Model, tokens *TokenMaker, c *common.Cache) *UserService {
	return &UserService{
		m:      m,
		tokens: tokens,
		c:      c,
	}
}

// CreateUser registers a new account. The password is stored as a bcrypt hash.
func (s *UserService) CreateUser(ctx context.Context, username, name, password string) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validatePassword(v, password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	u := User{
		Username: username,
		Name:     name,
	}

	if err := u.Password.set(password); err != nil {
		return nil, err
	}

	if err := s.m.insert(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// LoginUser checks the credentials and returns a signed access token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, error) {
	if username == "" || password == "" {
		return nil, ErrAuthenticationFailure
	}

	user, err := s.m.getByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.matches(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := s.tokens.Create(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthToken{Token: token, Username: user.Username, Name: user.Name}, nil
}

// GetUserByAccessToken resolves a bearer token to its user. Lookups are cached per token.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	// verify on every call so a cached user never outlives its token
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.c != nil {
		if cached, ok := s.c.Lookup(token); ok {
			if u, ok := cached.(*User); ok {
				return u, nil
			}
		}
	}

	user, err := s.m.getByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrInvalidToken
		default:
			return nil, err
		}
	}

	if s.c != nil {
		s.c.Remember(token, user)
	}

	return user, nil
}

func (s *UserService) GetUsers(ctx context.Context) ([]*UserWithBlogs, error) {
	return s.m.getAll(ctx)
}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}
