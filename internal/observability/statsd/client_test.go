package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// udpListener collects datagrams written by the client under test.
func udpListener(t *testing.T) (*net.UDPConn, string) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, conn.LocalAddr().String()
}

func readDatagram(t *testing.T, conn *net.UDPConn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 1024)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestClient_EmitsLineProtocol(t *testing.T) {
	listener, addr := udpListener(t)

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    addr,
		Prefix:     "inventory_api",
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer client.Close()

	client.Count("import.stage", 1, map[string]string{"stage": "parse", "result": "success"})
	assert.Equal(t,
		"inventory_api.import.stage:1|c|#env:test,result:success,stage:parse",
		readDatagram(t, listener))

	client.Gauge("import.stage_rows", 42, nil)
	assert.Equal(t, "inventory_api.import.stage_rows:42|g|#env:test", readDatagram(t, listener))

	client.Timing("import.stage_duration", 1500*time.Millisecond, nil)
	assert.Equal(t, "inventory_api.import.stage_duration:1500|ms|#env:test", readDatagram(t, listener))
}

func TestClient_NameSanitization(t *testing.T) {
	listener, addr := udpListener(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer client.Close()

	client.Count("import stage/parse", 1, nil)
	assert.Equal(t, "import_stage_parse:1|c", readDatagram(t, listener))
}

func TestClient_DisabledIsNoop(t *testing.T) {
	client, err := NewClient(Config{Enabled: false, Address: "localhost:8125"})
	require.NoError(t, err)

	// No connection was dialed; emitting must not panic.
	client.Count("import.stage", 1, nil)
	client.Gauge("import.stage_rows", 1, nil)
	client.Timing("import.stage_duration", time.Second, nil)
	assert.NoError(t, client.Close())

	var nilClient *Client
	nilClient.Count("import.stage", 1, nil)
	assert.NoError(t, nilClient.Close())
}

func TestClient_EmptyAddressDisables(t *testing.T) {
	client, err := NewClient(Config{Enabled: true, Address: "   "})
	require.NoError(t, err)
	client.Count("import.stage", 1, nil)
	assert.NoError(t, client.Close())
}

func TestClient_LocalTagsOverrideGlobal(t *testing.T) {
	listener, addr := udpListener(t)

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    addr,
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer client.Close()

	client.Count("jobs", 2, map[string]string{"env": "ci"})
	assert.Equal(t, "jobs:2|c|#env:ci", readDatagram(t, listener))
}
