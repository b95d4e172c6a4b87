package util

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

func TestMatchSoundServers(t *testing.T) {
	processes := []ps.Process{
		fakeProcess{10, "systemd"},
		fakeProcess{11, "pipewire"},
		fakeProcess{12, "pipewire-pulse"},
		fakeProcess{13, "pipewire"},
		fakeProcess{14, "bash"},
	}

	assert.Equal(t, []string{"pipewire", "pipewire-pulse"}, matchSoundServers(processes))
	assert.Empty(t, matchSoundServers(nil))
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	assert.Equal(t, filepath.Join("/tmp/cfg", "volume-ctl"), ConfigDir())
	assert.Equal(t, filepath.Join("/tmp/state", "volume-ctl"), StateDir())
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")

	require.NoError(t, EnsureDirExists(nested))
	assert.False(t, FileExists(nested), "directories are not files")

	file := filepath.Join(nested, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server: x\n"), 0o644))
	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
}

func TestSignalExitCode(t *testing.T) {
	assert.Equal(t, 130, SignalExitCode(syscall.SIGINT))
	assert.Equal(t, 143, SignalExitCode(syscall.SIGTERM))
}
