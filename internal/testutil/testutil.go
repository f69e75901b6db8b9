// Package testutil holds helpers shared by unit, integration and contract tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pawmart/pawmart/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Containers
// ============================================================================

// Container is a running database container.
type Container struct {
	// URL is the connection string for the database.
	URL       string
	container tc.Container
}

// Terminate stops and removes the container.
func (c *Container) Terminate(ctx context.Context) error {
	return c.container.Terminate(ctx)
}

// StartPostgres starts a disposable PostgreSQL server.
func StartPostgres(ctx context.Context) (*Container, error) {
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "pawmart_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	host, port, err := endpoint(ctx, container, "5432")
	if err != nil {
		return nil, err
	}

	return &Container{
		URL:       fmt.Sprintf("postgres://postgres:password@%s:%s/pawmart_test?sslmode=disable", host, port),
		container: container,
	}, nil
}

// StartMongo starts a disposable MongoDB server.
func StartMongo(ctx context.Context) (*Container, error) {
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start mongo: %w", err)
	}

	host, port, err := endpoint(ctx, container, "27017")
	if err != nil {
		return nil, err
	}

	return &Container{
		URL:       fmt.Sprintf("mongodb://%s:%s", host, port),
		container: container,
	}, nil
}

// tcpPort names a container port the way docker expects, e.g. "5432/tcp".
func tcpPort(port string) nat.Port {
	return nat.Port(port + "/tcp")
}

func endpoint(ctx context.Context, container tc.Container, port string) (string, string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return "", "", fmt.Errorf("container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, tcpPort(port))
	if err != nil {
		_ = container.Terminate(ctx)
		return "", "", fmt.Errorf("container port: %w", err)
	}
	return host, mapped.Port(), nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a user document with sensible defaults.
func NewTestUser(email string) model.Document {
	return model.Document{
		model.UserFieldEmail: email,
		"name":               "Test User",
		"photo":              "https://example.com/avatar.png",
	}
}

// NewTestListing creates a listing document owned by owner.
func NewTestListing(owner, category string, createdAt time.Time) model.Document {
	return model.Document{
		model.ListingFieldOwnerEmail: owner,
		model.ListingFieldCategory:   category,
		model.ListingFieldCreatedAt:  model.FormatTimestamp(createdAt),
		"name":                       "Test " + category,
		"price":                      100,
	}
}

// NewTestOrder creates an order document placed by buyer.
func NewTestOrder(buyer string) model.Document {
	return model.Document{
		model.OrderFieldBuyerEmail: buyer,
		"quantity":                 1,
		"total":                    100,
	}
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@test.pawmart.local", prefix, time.Now().UnixNano())
}
