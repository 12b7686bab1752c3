package common

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxManager runs fn as one unit of work. Store calls made with the ctx passed to fn join the unit.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type PostgresTxManager struct {
	db *sql.DB
}

func NewPostgresTxManager(db *sql.DB) *PostgresTxManager {
	return &PostgresTxManager{db: db}
}

func (m *PostgresTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// nested calls reuse the outer transaction
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// MongoTxManager uses session transactions when enabled, which needs a replica set.
// When disabled the writes in fn are applied one by one and a failure leaves earlier writes in place.
type MongoTxManager struct {
	client  *mongo.Client
	enabled bool
}

func NewMongoTxManager(client *mongo.Client, enabled bool) *MongoTxManager {
	return &MongoTxManager{client: client, enabled: enabled}
}

func (m *MongoTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.enabled {
		return fn(ctx)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})

	return err
}
