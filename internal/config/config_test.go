package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okonomi-dev/kiroku/pkg/types"
)

func TestLoadScaffoldsDefaultConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, ":8787", cfg.Addr)
	require.Equal(t, "kiroku.db", cfg.DataPath)

	// The default file now exists and is honored on the next load.
	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
}

func TestLoadReadsFileValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config.yaml"),
		[]byte("addr: \":9000\"\ndata_path: /var/lib/kiroku/kv.db\n"),
		0o644,
	))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, "/var/lib/kiroku/kv.db", cfg.DataPath)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("NOTION_API_KEY", "secret-notion")
	t.Setenv("LINE_CHANNEL_TOKEN", "secret-line")
	t.Setenv("NOTION_DB_TASKS", "0a1b-2c3d")
	t.Setenv("NOTION_DB_KNOWLEDGE", "ffff-0000")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "secret-notion", cfg.NotionAPIKey)
	require.Equal(t, "secret-line", cfg.LineChannelToken)

	// Binding identifiers are normalized to the dash-free form.
	require.Equal(t, "0a1b2c3d", cfg.Destinations[types.KindTasks])
	require.Equal(t, "ffff0000", cfg.Destinations[types.KindKnowledge])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"complete", Config{NotionAPIKey: "k", LineChannelToken: "t"}, nil},
		{"missing api key", Config{LineChannelToken: "t"}, ErrAPIKeyMissing},
		{"missing channel token", Config{NotionAPIKey: "k"}, ErrChannelTokenMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadUnboundKindsStayAbsent(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	_, ok := cfg.Destinations[types.KindTasks]
	require.False(t, ok, "unbound kind must be absent, not empty-string bound")
}
