package cache

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ibis1225/pet-ai/internal/shared/config"
)

func redisConfigFor(t *testing.T, addr string) *config.RedisConfig {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return &config.RedisConfig{Enabled: true, Host: host, Port: port}
}
