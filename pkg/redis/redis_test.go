package redis

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func configFor(t *testing.T, addr string) Config {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return Config{Host: host, Port: port, PoolSize: 2}
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewClient(context.Background(), configFor(t, mr.Addr()), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, mr.Exists("k"))
	assert.NoError(t, c.Close())
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := configFor(t, mr.Addr())
	mr.Close()

	_, err := NewClient(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}
