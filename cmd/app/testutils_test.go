package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) CreateUser(ctx context.Context, username, name, password string) (*userservice.User, error) {
	args := m.Called(ctx, username, name, password)
	u, _ := args.Get(0).(*userservice.User)
	return u, args.Error(1)
}

func (m *mockUserService) LoginUser(ctx context.Context, username, password string) (*userservice.AuthToken, error) {
	args := m.Called(ctx, username, password)
	t, _ := args.Get(0).(*userservice.AuthToken)
	return t, args.Error(1)
}

func (m *mockUserService) GetUserByAccessToken(ctx context.Context, token string) (*userservice.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*userservice.User)
	return u, args.Error(1)
}

func (m *mockUserService) GetUsers(ctx context.Context) ([]*userservice.UserWithBlogs, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*userservice.UserWithBlogs)
	return users, args.Error(1)
}

type mockBlogService struct {
	mock.Mock
}

func (m *mockBlogService) GetBlogs(ctx context.Context) ([]*blogservice.BlogWithUser, error) {
	args := m.Called(ctx)
	blogs, _ := args.Get(0).([]*blogservice.BlogWithUser)
	return blogs, args.Error(1)
}

func (m *mockBlogService) CreateBlog(ctx context.Context, input *blogservice.CreateBlogInput, owner blogservice.Owner) (*blogservice.Blog, error) {
	args := m.Called(ctx, input, owner)
	b, _ := args.Get(0).(*blogservice.Blog)
	return b, args.Error(1)
}

func (m *mockBlogService) DeleteBlog(ctx context.Context, id, callerID string) error {
	args := m.Called(ctx, id, callerID)
	return args.Error(0)
}

func (m *mockBlogService) UpdateBlog(ctx context.Context, id string, input *blogservice.UpdateBlogInput) (*blogservice.Blog, error) {
	args := m.Called(ctx, id, input)
	b, _ := args.Get(0).(*blogservice.Blog)
	return b, args.Error(1)
}

func (m *mockBlogService) UpdateOwnBlog(ctx context.Context, id string, input *blogservice.UpdateBlogInput, callerID string) (*blogservice.Blog, error) {
	args := m.Called(ctx, id, input, callerID)
	b, _ := args.Get(0).(*blogservice.Blog)
	return b, args.Error(1)
}

const (
	testToken    = "valid-token"
	testUserID   = "64b7f0c2e4b0a1a2b3c4d5e6"
	testOtherID  = "64b7f0c2e4b0a1a2b3c4d5e7"
	testBlogID   = "64b7f0c2e4b0a1a2b3c4d5f0"
	testUsername = "mluukkai"
)

func testConfig() *Config {
	return &Config{
		Environment: "development",
		Version:     "1.0.0",
		StoreDriver: "mongo",
	}
}

func newTestApplication(t *testing.T) (*application, *mockUserService, *mockBlogService) {
	t.Helper()

	users := new(mockUserService)
	blogs := new(mockBlogService)

	app := &application{
		config:      testConfig(),
		logger:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
		userService: users,
		blogService: blogs,
		done:        make(chan struct{}),
	}

	t.Cleanup(func() {
		app.stopBackground()
		users.AssertExpectations(t)
		blogs.AssertExpectations(t)
	})

	return app, users, blogs
}

// expectAuthenticated makes testToken resolve to the user with id.
func expectAuthenticated(users *mockUserService, id string) {
	users.On("GetUserByAccessToken", mock.Anything, testToken).Return(&userservice.User{ID: id, Username: testUsername, Name: "Matti Luukkainen"}, nil)
}

type testResponse struct {
	status int
	header http.Header
	body   []byte
}

func (r testResponse) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst))
}

// do sends a request through the full middleware chain.
func do(t *testing.T, h http.Handler, method, path string, payload any, token string) testResponse {
	t.Helper()

	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(p)
	default:
		js, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewBuffer(js)
	}

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return testResponse{status: rr.Code, header: rr.Header(), body: rr.Body.Bytes()}
}
