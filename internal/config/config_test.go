package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "brock.yml")

	validConfig := `comment: "me@example.com"
key_type: "rsa"
print_every: 500
output: "vanity"
ledger: "finds.db"
`
	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", cfg.Comment)
	assert.Equal(t, "rsa", cfg.KeyType)
	assert.Equal(t, uint64(500), cfg.PrintEvery)
	assert.Equal(t, "vanity", cfg.Output)
	assert.Equal(t, "finds.db", cfg.LedgerPath)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyType, cfg.KeyType)
	assert.Equal(t, uint64(DefaultPrintEvery), cfg.PrintEvery)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultLedgerPath, cfg.LedgerPath)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "brock.yml")

	err := os.WriteFile(configPath, []byte("key_type: [this is\n  not valid"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseTerms(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		want    []string
		wantErr bool
	}{
		{
			name:   "single term",
			search: "cafe",
			want:   []string{"cafe"},
		},
		{
			name:   "multiple terms lowercased",
			search: "Cafe,F00D,bEEf",
			want:   []string{"cafe", "f00d", "beef"},
		},
		{
			name:   "surrounding whitespace trimmed",
			search: " cafe , beef ",
			want:   []string{"cafe", "beef"},
		},
		{
			name:    "empty string",
			search:  "",
			wantErr: true,
		},
		{
			name:    "empty term between commas",
			search:  "cafe,,beef",
			wantErr: true,
		},
		{
			name:    "non-alphanumeric term",
			search:  "cafe,b-ad",
			wantErr: true,
		},
		{
			name:    "non-ascii term",
			search:  "café",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTerms(tt.search)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Search {
		cfg := NewSearch()
		cfg.Terms = []string{"cafe"}
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("no terms", func(t *testing.T) {
		cfg := valid()
		cfg.Terms = nil
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no search terms")
	})

	t.Run("invalid term", func(t *testing.T) {
		cfg := valid()
		cfg.Terms = []string{"cafe", "no!"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty key type", func(t *testing.T) {
		cfg := valid()
		cfg.KeyType = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero interval", func(t *testing.T) {
		cfg := valid()
		cfg.PrintEvery = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty output", func(t *testing.T) {
		cfg := valid()
		cfg.Output = ""
		assert.Error(t, cfg.Validate())
	})
}
