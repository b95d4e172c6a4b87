package util

import (
	"fmt"

	"github.com/mitchellh/go-ps"
	"github.com/thoas/go-funk"
)

// executables of sound servers that speak the PulseAudio protocol
var soundServerExecutables = []string{"pulseaudio", "pipewire-pulse", "pipewire"}

// SoundServerProcesses returns the executable names of any running sound
// servers, without duplicates
func SoundServerProcesses() ([]string, error) {
	processes, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	return matchSoundServers(processes), nil
}

func matchSoundServers(processes []ps.Process) []string {
	found := []string{}

	for _, process := range processes {
		name := process.Executable()
		if funk.ContainsString(soundServerExecutables, name) {
			found = append(found, name)
		}
	}

	return funk.UniqString(found)
}
