// Package mongo wraps the official MongoDB driver with configuration,
// connectivity checks and error classification shared by the data layer.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/filedrop/filedrop/internal/pkg/logger"
)

// Client wraps the MongoDB client
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	config *Config
	logger *logger.Logger
}

// New creates a MongoDB client, connects and verifies connectivity
func New(cfg *Config, log *logger.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("mongo: config is required")
	}
	if log == nil {
		log = logger.NewNop()
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect failed: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping failed: %w", err)
	}

	log.Info("mongo client initialized successfully",
		zap.String("database", cfg.Database),
	)

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
		config: cfg,
		logger: log,
	}, nil
}

// Ping issues a lightweight connectivity probe
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.PingTimeout)
	defer cancel()
	return c.client.Ping(ctx, readpref.Primary())
}

// Database returns the configured database handle
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Collection returns a collection handle in the configured database
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Close disconnects the client
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnect failed: %w", err)
	}
	c.logger.Info("mongo client closed")
	return nil
}

// IsTransient reports whether err is a connectivity-class failure worth
// retrying. Decode errors, write errors and missing documents are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	// Server selection gives up with a timeout when no node is reachable.
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
