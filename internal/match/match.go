// Package match implements the test applied to every generated public key.
package match

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormat indicates a public key that does not have the expected
// three-field authorized_keys shape. This is unrecoverable: it means the
// key generator is producing output this program does not understand.
var ErrFormat = errors.New("public key does not have 3 space-separated fields")

// Predicate tests public key text against a fixed set of lowercase search
// terms. It is pure and safe for concurrent use by every worker.
type Predicate struct {
	terms []string
}

// NewPredicate builds a predicate over already-validated lowercase terms.
func NewPredicate(terms []string) *Predicate {
	return &Predicate{terms: terms}
}

// Match splits content into the three authorized_keys fields (algorithm,
// key material, comment), lowercases the key material, and reports the
// first configured term contained in it. A field count other than 3 is a
// format error and never yields a match verdict.
func (p *Predicate) Match(content string) (term string, found bool, err error) {
	fields := strings.Split(strings.TrimRight(content, "\n"), " ")
	if len(fields) != 3 {
		return "", false, fmt.Errorf("%w (got %d)", ErrFormat, len(fields))
	}

	word := strings.ToLower(fields[1])
	for _, t := range p.terms {
		if strings.Contains(word, t) {
			return t, true, nil
		}
	}

	return "", false, nil
}
