package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	parent := t.TempDir()

	ws, err := Create(parent)
	require.NoError(t, err)

	info, err := os.Stat(ws.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, parent, filepath.Dir(ws.Dir()))
	assert.True(t, strings.HasPrefix(filepath.Base(ws.Dir()), "brock-"))
}

func TestSlotPaths(t *testing.T) {
	ws, err := Create(t.TempDir())
	require.NoError(t, err)

	private, public := ws.SlotPaths(3)
	assert.Equal(t, filepath.Join(ws.Dir(), "3"), private)
	assert.Equal(t, filepath.Join(ws.Dir(), "3.pub"), public)

	// Slots never collide with each other
	otherPrivate, otherPublic := ws.SlotPaths(4)
	assert.NotEqual(t, private, otherPrivate)
	assert.NotEqual(t, public, otherPublic)
}

func TestRemove(t *testing.T) {
	ws, err := Create(t.TempDir())
	require.NoError(t, err)

	// Remove deletes contents too
	private, _ := ws.SlotPaths(0)
	require.NoError(t, os.WriteFile(private, []byte("leftover"), 0600))

	require.NoError(t, ws.Remove())

	_, err = os.Stat(ws.Dir())
	assert.True(t, os.IsNotExist(err))
}
