package mongo

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driver "go.mongodb.org/mongo-driver/mongo"
)

func TestConfigSetDefaults(t *testing.T) {
	cfg := &Config{Database: "filedrop"}
	cfg.SetDefaults()

	assert.Equal(t, "mongodb://localhost:27017", cfg.URI)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.PingTimeout)
	assert.Equal(t, uint64(100), cfg.MaxPoolSize)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{URI: "mongodb://localhost:27017", Database: "filedrop"}
	require.NoError(t, cfg.Validate())

	require.Error(t, (&Config{Database: "filedrop"}).Validate())
	require.Error(t, (&Config{URI: "mongodb://localhost:27017"}).Validate())
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(driver.ErrNoDocuments))
	assert.False(t, IsTransient(errors.New("decode failure")))

	var netErr net.Error = &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	assert.True(t, IsTransient(netErr))

	cmdErr := driver.CommandError{Code: 11000, Message: "duplicate key"}
	assert.False(t, IsTransient(cmdErr))
}
