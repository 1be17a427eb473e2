package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected  *Config
		initial   *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "all flags", args: []string{
			"-a", "127.0.0.1:9090", "-b", "sqlite", "-d", "db", "-s", "secret",
			"-t", "1", "-r", "3", "-p", "bcrypt", "-l", "debug",
		},
			expected: &Config{
				EndpointAddrGRPC:             "127.0.0.1:9090",
				DatabaseDriver:               "sqlite",
				DatabaseDSN:                  "db",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				PasswordHasher:               "bcrypt",
				LogLevel:                     "debug",
			}},
		{name: "foreign flags are ignored", args: []string{
			"createuser", "-email", "a@b.c", "-a", ":1", "-noinput",
		},
			expected: &Config{
				EndpointAddrGRPC:             ":1",
				AccessTokenValidityDuration:  0,
				RefreshTokenValidityDuration: 0,
			}},
		{name: "unset durations are kept", args: []string{"-a", ":2"},
			initial: &Config{AccessTokenValidityDuration: 90 * time.Second, RefreshTokenValidityDuration: 30 * time.Second},
			expected: &Config{
				EndpointAddrGRPC:             ":2",
				AccessTokenValidityDuration:  90 * time.Second,
				RefreshTokenValidityDuration: 30 * time.Second,
			}},
		{name: "bad int", args: []string{"-t", "many"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			if tt.initial != nil {
				*config = *tt.initial
			}

			err := parseFlags(config, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}

func TestFlagNamesIncludeConfigFile(t *testing.T) {
	assert.Contains(t, FlagNames, "-c")
	assert.Contains(t, FlagNames, "-config")
	assert.Contains(t, FlagNames, "-l")
}
