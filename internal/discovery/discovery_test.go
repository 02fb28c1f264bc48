package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBroadcastReachesListener(t *testing.T) {
	l := NewListener(0)
	require.NoError(t, l.Start())
	defer l.Stop()
	require.NotZero(t, l.Port())

	sessions := 3
	b := NewBroadcaster(ServerInfo{
		Name:     "test",
		GameAddr: "127.0.0.1:9999",
		Rows:     10,
		Cols:     12,
		Robots:   6,
		Strategy: "chase",
	}, l.Port(), func() int { return sessions }, zap.NewNop())
	require.NoError(t, b.Start())
	defer b.Stop()

	info, ok := l.WaitForServer(3 * time.Second)
	require.True(t, ok, "no broadcast received")
	assert.Equal(t, "127.0.0.1:9999", info.GameAddr)
	assert.Equal(t, "test", info.Name)
	assert.Equal(t, 3, info.Sessions)
	assert.Equal(t, "chase", info.Strategy)
	assert.Len(t, l.Servers(), 1)
}

func TestWaitForServerTimesOut(t *testing.T) {
	l := NewListener(0)
	require.NoError(t, l.Start())
	defer l.Stop()

	_, ok := l.WaitForServer(100 * time.Millisecond)
	assert.False(t, ok)
}

func TestBroadcastAddr(t *testing.T) {
	_, ipnet, err := net.ParseCIDR("192.168.1.17/24")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.255", broadcastAddr(ipnet).String())

	_, ipnet, err = net.ParseCIDR("10.0.0.0/8")
	require.NoError(t, err)
	assert.Equal(t, "10.255.255.255", broadcastAddr(ipnet).String())
}
