package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/mailservice"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type blogService interface {
	GetBlogs(ctx context.Context) ([]*blogservice.BlogWithUser, error)
	CreateBlog(ctx context.Context, input *blogservice.CreateBlogInput, owner blogservice.Owner) (*blogservice.Blog, error)
	DeleteBlog(ctx context.Context, id, callerID string) error
	UpdateBlog(ctx context.Context, id string, input *blogservice.UpdateBlogInput) (*blogservice.Blog, error)
	UpdateOwnBlog(ctx context.Context, id string, input *blogservice.UpdateBlogInput, callerID string) (*blogservice.Blog, error)
}

type userService interface {
	CreateUser(ctx context.Context, username, name, password string) (*userservice.User, error)
	LoginUser(ctx context.Context, username, password string) (*userservice.AuthToken, error)
	GetUserByAccessToken(ctx context.Context, token string) (*userservice.User, error)
	GetUsers(ctx context.Context) ([]*userservice.UserWithBlogs, error)
}

type application struct {
	config      *Config
	logger      *slog.Logger
	userService userService
	blogService blogService
	mailService *mailservice.MailService
	broker      *common.MessageBroker

	// ping reports whether the store is reachable, nil skips the check
	ping func(ctx context.Context) error

	// done is closed on shutdown and stops the goroutines counted by wg
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func main() {
	configPath := flag.String("config", ".env", "path to the dotenv config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogFormat, cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	st, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to open the store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.close()

	app := &application{
		config: cfg,
		logger: logger,
		ping:   st.ping,
		done:   make(chan struct{}),
	}

	// the broker is optional, without it no blog.created events are published
	var producer common.MessageProducer
	if cfg.MQHost != "" {
		URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
		broker, err := common.NewMessageBroker(URI)
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer broker.Close()

		if err := common.SetupBlogExchange(broker); err != nil {
			logger.Error("failed to setup the blog exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}

		app.broker = broker
		producer = broker

		if cfg.MailHost != "" && cfg.MailRecipient != "" {
			app.mailService = mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailRecipient, cfg.MailPort, logger)
			app.mailService.SendBlogNotifications()
		}
	}

	cache := common.NewCache(cfg.CacheTTL, 2*cfg.CacheTTL)
	tokens := userservice.NewTokenMaker(cfg.JWTSecret, cfg.JWTTTL)

	app.userService = userservice.NewUserService(st.users, tokens, cache)
	app.blogService = blogservice.NewBlogService(st.blogs, st.tx, producer, logger)

	if err := app.serve(cfg.Port); err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newLogger writes to stdout and, when file is set, to a size-rotated log file as well.
func newLogger(format, file string) *slog.Logger {
	var out io.Writer = os.Stdout
	if file != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(out, nil))
	}

	return slog.New(slog.NewTextHandler(out, nil))
}

var shutdownTimeout = 30 * time.Second
