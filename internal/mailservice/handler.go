package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/bloglist/internal/common"
)

// NewMailService returns a service that mails recipient about every new blog post.
func NewMailService(mb common.MessageConsumer, host, username, password, sender, recipient string, port int, logger *slog.Logger) *MailService {
	return newMailService(mb, NewMailer(host, port, username, password, sender, NewTemplate()), recipient, logger)
}

func newMailService(mb common.MessageConsumer, m Mailer, recipient string, logger MailLogger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         m,
		logger:    logger,
		recipient: recipient,
		baseDelay: baseDelay,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SendBlogNotifications consumes blog.created messages until Close is called or the channel closes.
func (s *MailService) SendBlogNotifications() {
	msgs, err := s.mb.Consume(common.BlogCreatedKey, common.BlogExchange, common.BlogCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				s.handle(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping SendBlogNotifications due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) handle(msg amqp.Delivery) {
	var data common.BlogCreatedMessage

	if err := json.Unmarshal(msg.Body, &data); err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	// exponential backoff with jitter
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.m.send(s.recipient, data, BlogCreatedTemplate)
		if err == nil {
			s.logger.Info("blog notification sent", slog.String("blog_id", data.ID))
			_ = msg.Ack(false)
			return
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying blog notification", slog.String("blog_id", data.ID), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			_ = msg.Nack(false, true)
			return
		}
	}

	s.logger.Error("could not send blog notification", slog.String("blog_id", data.ID))
	_ = msg.Ack(false)
}

func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
