package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("mincpu", pflag.ContinueOnError)
	flags.StringSlice("regions", nil, "")
	flags.String("output", "text", "")
	flags.Int("concurrency", 1, "")
	flags.String("name-policy", "first-tag", "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "first-tag", cfg.NamePolicy)
	assert.Equal(t, "Name", cfg.NameTagKey)
	assert.Equal(t, OutputText, cfg.Output)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.False(t, cfg.Pricing)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Regions)
	assert.Equal(t, time.Duration(0), cfg.GetTimeout())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid full config",
			yaml: `profile: ops
defaultRegion: ap-northeast-2
regions:
  - us-east-1
  - ap-northeast-2
namePolicy: tag-key
nameTagKey: Service
output: table
concurrency: 4
pricing: true
timeout: 10m
logLevel: debug`,
		},
		{
			name: "empty config file",
			yaml: ``,
		},
		{
			name:    "invalid name policy",
			yaml:    `namePolicy: last-tag`,
			wantErr: true,
			errMsg:  "invalid name policy",
		},
		{
			name:    "invalid output",
			yaml:    `output: csv`,
			wantErr: true,
			errMsg:  "invalid output",
		},
		{
			name:    "zero concurrency",
			yaml:    `concurrency: 0`,
			wantErr: true,
			errMsg:  "concurrency must be at least 1",
		},
		{
			name:    "invalid timeout",
			yaml:    `timeout: soon`,
			wantErr: true,
			errMsg:  "invalid timeout",
		},
		{
			name:    "negative timeout",
			yaml:    `timeout: -1m`,
			wantErr: true,
			errMsg:  "timeout must not be negative",
		},
		{
			name:    "invalid log level",
			yaml:    `logLevel: trace`,
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "access key without secret",
			yaml:    `accessKeyId: test`,
			wantErr: true,
			errMsg:  "must be set together",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.yaml), nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}

func TestLoadFileValues(t *testing.T) {
	path := writeConfig(t, `defaultRegion: ap-northeast-2
endpointUrl: http://localhost:4566
accessKeyId: test
secretAccessKey: secret
regions: [us-east-1, ap-northeast-2]
namePolicy: tag-key
nameTagKey: Service
timeout: 90s`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"us-east-1", "ap-northeast-2"}, cfg.Regions)
	assert.Equal(t, "tag-key", cfg.NamePolicy)
	assert.Equal(t, "Service", cfg.NameTagKey)
	assert.Equal(t, 90*time.Second, cfg.GetTimeout())

	cc := cfg.ClientConfig()
	assert.Equal(t, "ap-northeast-2", cc.DefaultRegion)
	assert.Equal(t, "http://localhost:4566", cc.EndpointURL)
	assert.True(t, cc.HasStaticCredentials())
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MINCPU_OUTPUT", "json")
	t.Setenv("MINCPU_CONCURRENCY", "3")
	t.Setenv("MINCPU_DEFAULT_REGION", "eu-west-1")

	cfg, err := Load(writeConfig(t, "output: table\ndefaultRegion: us-west-2"), nil)
	require.NoError(t, err)

	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, "eu-west-1", cfg.DefaultRegion)
}

func TestFlagsOverrideEnvAndFile(t *testing.T) {
	t.Setenv("MINCPU_OUTPUT", "json")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--output", "table", "--regions", "us-east-1,eu-west-1", "--concurrency", "2"}))

	cfg, err := Load(writeConfig(t, "output: text\nconcurrency: 8"), flags)
	require.NoError(t, err)

	assert.Equal(t, OutputTable, cfg.Output)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, cfg.Regions)
}

func TestUnsetFlagsKeepFileValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, "namePolicy: tag-key"), newFlags())
	require.NoError(t, err)

	assert.Equal(t, "tag-key", cfg.NamePolicy)
}
