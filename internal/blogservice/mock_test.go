package blogservice

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/bloglist/internal/common"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) getAll(ctx context.Context) ([]*BlogWithUser, error) {
	args := m.Called(ctx)
	blogs, _ := args.Get(0).([]*BlogWithUser)
	return blogs, args.Error(1)
}

func (m *mockModel) get(ctx context.Context, id string) (*Blog, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*Blog)
	return b, args.Error(1)
}

func (m *mockModel) insert(ctx context.Context, b *Blog) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockModel) update(ctx context.Context, id, title, author, url string, likes int) (*Blog, error) {
	args := m.Called(ctx, id, title, author, url, likes)
	b, _ := args.Get(0).(*Blog)
	return b, args.Error(1)
}

func (m *mockModel) delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockModel) addToUser(ctx context.Context, userID, blogID string) error {
	args := m.Called(ctx, userID, blogID)
	return args.Error(0)
}

func (m *mockModel) removeFromUser(ctx context.Context, userID, blogID string) error {
	args := m.Called(ctx, userID, blogID)
	return args.Error(0)
}

// passTx runs fn directly and counts the units of work it was handed.
type passTx struct {
	calls int
}

func (tx *passTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

type mockProducer struct {
	mock.Mock
}

func (p *mockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	args := p.Called(ctx, msg, key, exchange)
	return args.Error(0)
}
