package logging

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndWrite(t *testing.T) {
	logger, err := New("test-component")
	require.NoError(t, err)
	defer logger.Close()

	assert.NotEmpty(t, logger.SessionID())
	assert.NotEmpty(t, logger.LogPath())

	logger.Infof("hello %s", "world")
	logger.Debugf("debug detail %d", 42)

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "INFO")
	assert.Contains(t, content, "[test-component]")
	assert.Contains(t, content, "hello world")
	assert.Contains(t, content, "debug detail 42")
}

func TestSessionIDSharedAcrossLoggers(t *testing.T) {
	a, err := New("component-a")
	require.NoError(t, err)
	defer a.Close()

	b, err := New("component-b")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.SessionID(), b.SessionID())
	assert.Equal(t, a.LogPath(), b.LogPath())
	assert.True(t, strings.HasSuffix(a.LogPath(), "-dailies.log"))
}

func TestCloseIsIdempotent(t *testing.T) {
	logger, err := New("close-test")
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}
