package network

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCounters creates a sysfs-like tree for iface below root.
func writeCounters(t *testing.T, root, iface string, values map[Counter]string) {
	t.Helper()

	statsDir := filepath.Join(root, iface, "statistics")
	require.NoError(t, os.MkdirAll(statsDir, 0o755))

	for counter, content := range values {
		path := filepath.Join(statsDir, string(counter))
		if counter == Speed {
			path = filepath.Join(root, iface, string(Speed))
		}
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func fullCounters(base uint64) map[Counter]string {
	values := make(map[Counter]string, len(AllCounters))
	for i, counter := range AllCounters {
		values[counter] = strconv.FormatUint(base+uint64(i), 10) + "\n"
	}
	return values
}

func TestCounterReader_Path(t *testing.T) {
	r := NewCounterReader("/sys/class/net")

	tests := []struct {
		name        string
		iface       string
		counter     Counter
		expected    string
		expectError bool
	}{
		{"statistics counter", "eth0", RxBytes, "/sys/class/net/eth0/statistics/rx_bytes", false},
		{"drop counter", "wlan0", TxDropped, "/sys/class/net/wlan0/statistics/tx_dropped", false},
		{"speed", "eth0", Speed, "/sys/class/net/eth0/speed", false},
		{"empty interface", "", RxBytes, "", true},
		{"dot-dot interface", "..", RxBytes, "", true},
		{"interface with separator", "../../etc", RxBytes, "", true},
		{"counter with separator", "eth0", Counter("../../passwd"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := r.Path(tt.iface, tt.counter)
			if tt.expectError {
				assert.ErrorIs(t, err, errInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestNewCounterReader_DefaultRoot(t *testing.T) {
	assert.Equal(t, DefaultSysfsRoot, NewCounterReader("").Root())
	assert.Equal(t, "/tmp/sys", NewCounterReader("/tmp/sys/").Root())
}

func TestCounterReader_Read(t *testing.T) {
	tests := []struct {
		name        string
		counter     Counter
		content     string
		expected    uint64
		expectedErr error
	}{
		{"plain value", RxBytes, "12345\n", 12345, nil},
		{"only first line is parsed", TxBytes, "99999999999\nextra garbage\n", 99999999999, nil},
		{"no trailing newline", RxPackets, "42", 42, nil},
		{"surrounding whitespace", TxPackets, "  7 \n", 7, nil},
		{"max uint64", RxBytes, "18446744073709551615\n", 18446744073709551615, nil},
		{"empty file", RxErrors, "", 0, nil},
		{"empty first line", RxErrors, "\n17\n", 0, nil},
		{"unknown link speed", Speed, "-1\n", 0, nil},
		{"link speed", Speed, "1000\n", 1000, nil},
		{"garbage", TxErrors, "abc\n", 0, strconv.ErrSyntax},
		{"negative counter", RxDropped, "-1\n", 0, strconv.ErrSyntax},
		{"overflow", RxBytes, "18446744073709551616\n", 0, strconv.ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeCounters(t, root, "eth0", map[Counter]string{tt.counter: tt.content})

			v, err := NewCounterReader(root).Read("eth0", tt.counter)
			assert.Equal(t, tt.expected, v)
			if tt.expectedErr != nil {
				var w *Warning
				require.ErrorAs(t, err, &w)
				assert.Equal(t, "eth0", w.Interface)
				assert.Equal(t, string(tt.counter), w.Field)
				assert.NotEmpty(t, w.Path)
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCounterReader_ReadMissingStatisticsDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lo0fake"), 0o755))

	v, err := NewCounterReader(root).Read("lo0fake", RxBytes)

	assert.Zero(t, v)
	var w *Warning
	require.ErrorAs(t, err, &w)
	assert.Equal(t, filepath.Join(root, "lo0fake", "statistics", "rx_bytes"), w.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "lo0fake")
}

func TestCounterReader_ReadUnreadableFile(t *testing.T) {
	root := t.TempDir()
	// A directory in place of the counter file opens fine but fails on read.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "eth0", "statistics", "rx_bytes"), 0o755))

	v, err := NewCounterReader(root).Read("eth0", RxBytes)

	assert.Zero(t, v)
	var w *Warning
	assert.ErrorAs(t, err, &w)
}

func TestCounterReader_ReadInvalidInterfaceName(t *testing.T) {
	v, err := NewCounterReader(t.TempDir()).Read("../etc", RxBytes)

	assert.Zero(t, v)
	var w *Warning
	require.ErrorAs(t, err, &w)
	assert.Empty(t, w.Path)
	assert.ErrorIs(t, err, errInvalidName)
}

func TestCounterReader_ReadAll(t *testing.T) {
	root := t.TempDir()
	writeCounters(t, root, "eth0", fullCounters(100))

	counters, errs := NewCounterReader(root).ReadAll("eth0")

	assert.Empty(t, errs)
	for i, counter := range AllCounters {
		assert.Equal(t, uint64(100+i), counters.Get(counter), "counter %s", counter)
	}
}

func TestCounterReader_ReadAllMissingSpeed(t *testing.T) {
	root := t.TempDir()
	values := fullCounters(10)
	delete(values, Speed)
	writeCounters(t, root, "veth0", values)

	counters, errs := NewCounterReader(root).ReadAll("veth0")

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], fs.ErrNotExist)
	assert.Zero(t, counters.SpeedMbps)
	assert.Equal(t, uint64(11), counters.RxBytes)
	assert.Equal(t, uint64(18), counters.TxDropped)
}

func TestCounters_GetSet(t *testing.T) {
	var c Counters
	for i, counter := range AllCounters {
		c.Set(counter, uint64(i+1))
	}
	c.Set(Counter("multicast"), 99)

	assert.Equal(t, uint64(1), c.SpeedMbps)
	assert.Equal(t, uint64(2), c.RxBytes)
	assert.Equal(t, uint64(3), c.TxBytes)
	assert.Equal(t, uint64(9), c.TxDropped)
	assert.Zero(t, c.Get(Counter("multicast")))
}

func TestTrafficCounters(t *testing.T) {
	assert.Len(t, TrafficCounters, 8)
	assert.NotContains(t, TrafficCounters, Speed)
}
