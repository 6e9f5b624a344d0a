package pidfile_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starport-go/internal/infrastructure/pidfile"
)

func TestPIDFile_AcquireAndRelease(t *testing.T) {
	// Arrange
	pf := pidfile.New(filepath.Join(t.TempDir(), "starport.pid"))

	// Act
	require.NoError(t, pf.Acquire())
	pid, err := pf.Read()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	require.NoError(t, pf.Acquire(), "re-acquiring our own file is allowed")

	require.NoError(t, pf.Release())
	require.NoError(t, pf.Release())
	_, err = os.Stat(pf.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestPIDFile_ReplacesStaleOrGarbageFiles(t *testing.T) {
	for _, content := range []string{"999999999\n", "not a pid\n"} {
		// Arrange
		path := filepath.Join(t.TempDir(), "starport.pid")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		pf := pidfile.New(path)

		// Act
		err := pf.Acquire()

		// Assert
		require.NoError(t, err, "content %q", content)
		pid, err := pf.Read()
		require.NoError(t, err)
		assert.Equal(t, os.Getpid(), pid)
	}
}

func TestPIDFile_RefusesLiveProcess(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "starport.pid")
	parent := os.Getppid()
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(parent)), 0o644))

	// Act
	err := pidfile.New(path).Acquire()

	// Assert
	var running *pidfile.ErrAlreadyRunning
	require.ErrorAs(t, err, &running)
	assert.Equal(t, parent, running.PID)
}
