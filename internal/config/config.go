package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor the flags set a value.
const (
	DefaultKeyType    = "ed25519"
	DefaultPrintEvery = 100
	DefaultOutput     = "bruted"
	DefaultLedgerPath = ".brock/ledger.db"
)

// Search is the validated configuration for one search run. It is shared
// read-only by every worker; nothing mutates it after Validate.
type Search struct {
	// Comment is embedded in the generated key (usually an email address).
	Comment string `yaml:"comment"`

	// Terms are the lowercased search terms. Populated from the
	// comma-separated --search flag via ParseTerms.
	Terms []string `yaml:"-"`

	// KeyType is passed to the key generator (e.g. "ed25519", "rsa").
	KeyType string `yaml:"key_type"`

	// PrintEvery is the progress-report interval in attempts.
	PrintEvery uint64 `yaml:"print_every"`

	// Output is the base name for the persisted key pair: the private key
	// is written to <Output> and the public key to <Output>.pub.
	Output string `yaml:"output"`

	// LedgerPath is the SQLite database recording completed searches.
	// An empty path disables the ledger.
	LedgerPath string `yaml:"ledger"`
}

// NewSearch returns a Search with all defaults applied.
func NewSearch() *Search {
	return &Search{
		KeyType:    DefaultKeyType,
		PrintEvery: DefaultPrintEvery,
		Output:     DefaultOutput,
		LedgerPath: DefaultLedgerPath,
	}
}

// Load reads an optional brock.yml-style config file and applies it over
// the defaults. A missing file is not an error; a malformed one is.
func Load(path string) (*Search, error) {
	cfg := NewSearch()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}

	return cfg, nil
}

// ParseTerms splits a comma-separated search string into lowercased terms
// and validates each one. Terms must be non-empty and ASCII-alphanumeric:
// the public key field they are matched against is base64 text, so anything
// else could never match and is treated as user error.
func ParseTerms(search string) ([]string, error) {
	if strings.TrimSpace(search) == "" {
		return nil, fmt.Errorf("no search terms given: try something like \"cafe,f00d\"")
	}

	parts := strings.Split(search, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		term := strings.ToLower(strings.TrimSpace(part))
		if term == "" {
			return nil, fmt.Errorf("empty search term in %q", search)
		}
		if !isASCIIAlphanumeric(term) {
			return nil, fmt.Errorf("search term %q is not ASCII-alphanumeric", term)
		}
		terms = append(terms, term)
	}

	return terms, nil
}

// Validate performs strict validation on the configuration. It must pass
// before any worker is spawned.
func (s *Search) Validate() error {
	if len(s.Terms) == 0 {
		return fmt.Errorf("no search terms configured")
	}
	for _, term := range s.Terms {
		if term == "" || !isASCIIAlphanumeric(term) {
			return fmt.Errorf("invalid search term %q: terms must be ASCII-alphanumeric", term)
		}
	}
	if s.KeyType == "" {
		return fmt.Errorf("key type must not be empty")
	}
	if s.PrintEvery == 0 {
		return fmt.Errorf("print_every must be a positive integer")
	}
	if s.Output == "" {
		return fmt.Errorf("output name must not be empty")
	}
	return nil
}

func isASCIIAlphanumeric(s string) bool {
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
