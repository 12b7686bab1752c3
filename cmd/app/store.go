package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type store struct {
	users userservice.Model
	blogs blogservice.Model
	tx    common.TxManager
	ping  func(ctx context.Context) error
	close func()
}

// openStore connects to the backend named by STORE_DRIVER and prepares its schema.
func openStore(ctx context.Context, cfg *Config) (*store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
		if err != nil {
			return nil, err
		}

		if err := common.MigrateDB(db); err != nil {
			common.CloseDB(db)
			return nil, err
		}

		return &store{
			users: userservice.NewPostgresModel(db),
			blogs: blogservice.NewPostgresModel(db),
			tx:    common.NewPostgresTxManager(db),
			ping:  db.PingContext,
			close: func() { common.CloseDB(db) },
		}, nil

	case "mongo":
		m, err := common.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, 10*time.Second)
		if err != nil {
			return nil, err
		}

		if err := m.EnsureIndexes(ctx); err != nil {
			m.Close(ctx)
			return nil, err
		}

		return &store{
			users: userservice.NewMongoModel(m.Database),
			blogs: blogservice.NewMongoModel(m.Database),
			tx:    common.NewMongoTxManager(m.Client, cfg.MongoTransactions),
			ping:  func(ctx context.Context) error { return m.Client.Ping(ctx, nil) },
			close: func() { m.Close(context.Background()) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
