package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytesAppliesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("enumerator: net\n"))
	require.NoError(t, err)

	assert.Equal(t, "net", cfg.Enumerator)
	assert.Equal(t, "/sys/class/net", cfg.Sysfs.Root)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, ":9100", cfg.Serve.Address)
	assert.Equal(t, "/metrics", cfg.Serve.MetricsPath)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadFromBytesValidates(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty sysfs root", "sysfs:\n  root: \"\"\n"},
		{"bad log format", "logging:\n  format: xml\n"},
		{"relative metrics path", "serve:\n  metrics_path: metrics\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ifstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sysfs:
  root: /tmp/fakesys
serve:
  address: 127.0.0.1:9200
logging:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/fakesys", cfg.Sysfs.Root)
	assert.Equal(t, "127.0.0.1:9200", cfg.Serve.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ifstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enumerator: netlink\noutput:\n  format: json\n"), 0o644))
	t.Setenv("IFSTAT_OUTPUT_FORMAT", "tsv")
	t.Setenv("IFSTAT_SYSFS_ROOT", "/env/sys")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("sysfs-root", "/sys/class/net", "")
	flags.String("enumerator", "auto", "")
	require.NoError(t, flags.Parse([]string{"--sysfs-root", "/flag/sys"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "/flag/sys", cfg.Sysfs.Root, "flag beats env")
	assert.Equal(t, "tsv", cfg.Output.Format, "env beats file")
	assert.Equal(t, "netlink", cfg.Enumerator, "file beats unset flag")
}
