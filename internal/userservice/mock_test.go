package userservice

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) insert(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockModel) getByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockModel) getByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockModel) getAll(ctx context.Context) ([]*UserWithBlogs, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*UserWithBlogs)
	return users, args.Error(1)
}
