package keygen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSSHKeygenArgs(t *testing.T) {
	g := &SSHKeygen{
		Dir:     "/tmp/scratch",
		KeyType: "ed25519",
		Comment: "me@example.com",
	}

	args := g.args(7)
	assert.Equal(t, []string{
		"-t", "ed25519",
		"-C", "me@example.com",
		"-f", "7",
		"-N", "",
	}, args)
}

func TestSSHKeygenGenerate_MissingBinary(t *testing.T) {
	// Point PATH at an empty directory so the binary cannot be found.
	t.Setenv("PATH", t.TempDir())

	g := &SSHKeygen{Dir: t.TempDir(), KeyType: "ed25519", Comment: "x"}
	err := g.Generate(context.Background(), 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run ssh-keygen")
}
