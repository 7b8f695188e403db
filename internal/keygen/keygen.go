// Package keygen wraps the external key-generation step. The search engine
// treats generation as an opaque operation: given a slot index it must leave
// <slot> and <slot>.pub in the working directory, and anything else is a
// fatal environment problem.
package keygen

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// Generator produces one key pair per call for the given slot index.
// Implementations must write the private key to <slot> and the public key
// to <slot>.pub inside their configured directory.
type Generator interface {
	Generate(ctx context.Context, slot int) error
}

// SSHKeygen generates key pairs by invoking the ssh-keygen binary.
type SSHKeygen struct {
	// Dir is the directory keys are written into (the scratch workspace).
	Dir string

	// KeyType is passed to ssh-keygen -t (e.g. "ed25519").
	KeyType string

	// Comment is embedded in the public key via ssh-keygen -C.
	Comment string
}

// args builds the ssh-keygen argument list for a slot. The empty -N value
// produces a key with no passphrase; -f is relative so the key lands in the
// command's working directory.
func (g *SSHKeygen) args(slot int) []string {
	return []string{
		"-t", g.KeyType,
		"-C", g.Comment,
		"-f", strconv.Itoa(slot),
		"-N", "",
	}
}

// Generate runs ssh-keygen once for the slot, discarding its output.
// A failure to launch or an abnormal exit is returned as an error; the
// caller treats it as fatal since a broken generator invalidates the search.
func (g *SSHKeygen) Generate(ctx context.Context, slot int) error {
	cmd := exec.CommandContext(ctx, "ssh-keygen", g.args(slot)...)
	cmd.Dir = g.Dir
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("ssh-keygen exited with code %d for slot %d", exitErr.ExitCode(), slot)
		}
		return fmt.Errorf("failed to run ssh-keygen for slot %d: %w", slot, err)
	}

	return nil
}
