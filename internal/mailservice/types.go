package mailservice

import (
	"context"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/bloglist/internal/common"
)

const (
	BlogCreatedTemplate = "blog_created.html"

	maxRetries = 5
	baseDelay  = 500 * time.Millisecond
)

type MailService struct {
	mb        common.MessageConsumer
	m         Mailer
	logger    MailLogger
	recipient string
	baseDelay time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu       sync.Mutex
	dialer   Dialer
	renderer Renderer
	sender   string
}

type Mailer interface {
	send(recipient string, data any, templateFile string) error
}

type Template struct{}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type Renderer interface {
	Render(name string, data any) (*Rendered, error)
}
