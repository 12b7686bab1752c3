package common

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRabbitMQ(t *testing.T) string {
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12.11-management-alpine", rabbitmq.WithAdminUsername("guest"), rabbitmq.WithAdminPassword("guest"))
	if err != nil {
		t.Fatalf("could not start rabbitmq container: %v", err)
	}

	connURL, err := container.AmqpURL(ctx)
	if err != nil {
		t.Fatalf("could not get rabbitmq connection URL: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("could not terminate container: %v", err)
		}
	})

	return connURL
}

// TestDB starts a postgres container and applies the embedded migrations.
func TestDB(t *testing.T) *sql.DB {
	ctx := context.Background()

	c, err := postgres.Run(ctx,
		"docker.io/postgres:14.11-bookworm",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(30*time.Second)))
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	connURL, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	db, err := connectDB(connURL, 10, 10, time.Minute)
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}

	if err := MigrateDB(db); err != nil {
		t.Fatalf("could not run migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		c.Terminate(ctx)
	})

	return db
}

func TestMongo(t *testing.T) *Mongo {
	ctx := context.Background()

	c, err := mongodb.Run(ctx, "mongo:6")
	if err != nil {
		t.Fatalf("could not start mongo container: %v", err)
	}

	connURL, err := c.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	m, err := NewMongo(ctx, connURL, "testdb", 10*time.Second)
	if err != nil {
		t.Fatalf("could not connect to mongo: %v", err)
	}

	if err := m.EnsureIndexes(ctx); err != nil {
		t.Fatalf("could not create indexes: %v", err)
	}

	t.Cleanup(func() {
		m.Close(ctx)
		c.Terminate(ctx)
	})

	return m
}
