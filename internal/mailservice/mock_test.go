package mailservice

import (
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/bloglist/internal/common"
)

type MockTemplate struct {
	mock.Mock
}

func (m *MockTemplate) Render(name string, data any) (*Rendered, error) {
	args := m.Called(name, data)
	r, _ := args.Get(0).(*Rendered)
	return r, args.Error(1)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) send(recipient string, data any, templateFile string) error {
	args := m.Called(recipient, data, templateFile)
	return args.Error(0)
}

// MockMessageConsumer delivers the given bodies and then closes the channel.
type MockMessageConsumer struct {
	mock.Mock
	bodies [][]byte
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(key, exchange, queue)
	if err := args.Error(0); err != nil {
		return nil, err
	}

	msgs := make(chan amqp.Delivery)

	go func() {
		defer close(msgs)

		for _, b := range m.bodies {
			msgs <- amqp.Delivery{Body: b}
		}
	}()

	return msgs, nil
}

// MockLogger records messages so tests can wait on them.
type MockLogger struct {
	mu    sync.Mutex
	infos []string
	errs  []string
}

func (l *MockLogger) Info(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *MockLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, msg)
}

func (l *MockLogger) snapshot() ([]string, []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.infos...), append([]string(nil), l.errs...)
}
