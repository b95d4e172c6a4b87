package volumectl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MixyLabs/volume-ctl/pkg/volumectl/pulse"
)

func channels(percentages ...float64) pulse.ChannelVolumes {
	cv := make(pulse.ChannelVolumes, len(percentages))
	for i, p := range percentages {
		cv[i] = PercentageToVolume(p)
	}

	return cv
}

func TestApplyVolumeCommands(t *testing.T) {
	tests := []struct {
		name     string
		start    []float64
		command  Command
		expected []float64
	}{
		{"up", []float64{50, 50}, Command{Action: ActionUp, Value: 10}, []float64{60, 60}},
		{"up clamps at 125", []float64{120}, Command{Action: ActionUp, Value: 10}, []float64{125}},
		{"down", []float64{50, 30}, Command{Action: ActionDown, Value: 5}, []float64{45, 25}},
		{"down clamps at 0", []float64{3, 40}, Command{Action: ActionDown, Value: 10}, []float64{0, 30}},
		{"set", []float64{10, 90}, Command{Action: ActionSet, Value: 42}, []float64{42, 42}},
		{"set above range", []float64{10}, Command{Action: ActionSet, Value: 400}, []float64{125}},
		{"set below range", []float64{10}, Command{Action: ActionSet, Value: -20}, []float64{0}},
		{"no channels", nil, Command{Action: ActionUp, Value: 10}, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			volumes := Volumes{Channels: channels(tt.start...)}
			tt.command.Apply(&volumes)

			got := volumes.Percentages()
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], got[i], 0.01)
			}
			assert.False(t, volumes.Muted)
		})
	}
}

func TestSetOutsideRangeIsExact(t *testing.T) {
	for _, value := range []float64{-1000, -0.5, 125.01, 1e9} {
		volumes := Volumes{Channels: channels(50)}
		Command{Action: ActionSet, Value: value}.Apply(&volumes)

		p := volumes.Percentages()[0]
		assert.True(t, p == 0 || p == 125, "set %g stored %g", value, p)
	}
}

func TestApplyMuteCommands(t *testing.T) {
	volumes := Volumes{Channels: channels(70)}
	before := volumes.Channels[0]

	Command{Action: ActionMute}.Apply(&volumes)
	assert.True(t, volumes.Muted)

	Command{Action: ActionMute}.Apply(&volumes)
	assert.True(t, volumes.Muted)

	Command{Action: ActionUnmute}.Apply(&volumes)
	assert.False(t, volumes.Muted)

	assert.Equal(t, before, volumes.Channels[0], "mute commands leave levels alone")
}

func TestToggleMuteTwiceRestores(t *testing.T) {
	for _, muted := range []bool{true, false} {
		volumes := Volumes{Muted: muted, Channels: channels(20)}

		Command{Action: ActionToggleMute}.Apply(&volumes)
		assert.Equal(t, !muted, volumes.Muted)

		Command{Action: ActionToggleMute}.Apply(&volumes)
		assert.Equal(t, muted, volumes.Muted)
	}
}

func TestGetLeavesVolumesAlone(t *testing.T) {
	volumes := Volumes{Muted: true, Channels: channels(33)}
	expected := Volumes{Muted: true, Channels: channels(33)}

	Command{Action: ActionGet}.Apply(&volumes)
	assert.Equal(t, expected, volumes)
	assert.False(t, ActionGet.Mutates())
}

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"5", 5, false},
		{"12.5", 12.5, false},
		{"-3", -3, false},
		{"abc", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePercentage(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "up 10", Command{Action: ActionUp, Value: 10}.String())
	assert.Equal(t, "set 12.5", Command{Action: ActionSet, Value: 12.5}.String())
	assert.Equal(t, "toggle-mute", Command{Action: ActionToggleMute}.String())
	assert.Equal(t, "action(99)", Action(99).String())
}
