package match

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		terms    []string
		content  string
		wantTerm string
		wantHit  bool
	}{
		{
			name:     "term in key material",
			terms:    []string{"cafe"},
			content:  "ssh-ed25519 AAAAC3cafebabe me@example.com",
			wantTerm: "cafe",
			wantHit:  true,
		},
		{
			name:     "case-insensitive",
			terms:    []string{"abc"},
			content:  "ssh-ed25519 xxAbCdEfxx me@example.com",
			wantTerm: "abc",
			wantHit:  true,
		},
		{
			name:    "no term present",
			terms:   []string{"zz"},
			content: "ssh-ed25519 AAAAC3NzaC1lZDI1 me@example.com",
			wantHit: false,
		},
		{
			name:     "first matching term wins",
			terms:    []string{"beef", "cafe"},
			content:  "ssh-ed25519 xxcafebeefxx me@example.com",
			wantTerm: "beef",
			wantHit:  true,
		},
		{
			name:    "term in comment does not count",
			terms:   []string{"cafe"},
			content: "ssh-ed25519 AAAAC3NzaC1lZDI1 cafe@example.com",
			wantHit: false,
		},
		{
			name:     "trailing newline tolerated",
			terms:    []string{"cafe"},
			content:  "ssh-ed25519 AAAAC3cafebabe me@example.com\n",
			wantTerm: "cafe",
			wantHit:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPredicate(tt.terms)
			term, hit, err := p.Match(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHit, hit)
			assert.Equal(t, tt.wantTerm, term)
		})
	}
}

func TestMatch_FormatError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "two fields", content: "ssh-ed25519 AAAAC3NzaC1lZDI1"},
		{name: "four fields", content: "ssh-ed25519 AAAA comment extra"},
		{name: "empty", content: ""},
	}

	p := NewPredicate([]string{"cafe"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.Match(tt.content)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestFingerprint(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	sshKey, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)

	line := string(ssh.MarshalAuthorizedKey(sshKey))
	fp, err := Fingerprint(line)
	require.NoError(t, err)
	assert.Equal(t, ssh.FingerprintSHA256(sshKey), fp)
	assert.True(t, strings.HasPrefix(fp, "SHA256:"))
}

func TestFingerprint_Invalid(t *testing.T) {
	_, err := Fingerprint("not a public key")
	assert.Error(t, err)
}
