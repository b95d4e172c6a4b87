package volumectl

import (
	"math"

	"github.com/thoas/go-funk"

	"github.com/MixyLabs/volume-ctl/pkg/volumectl/pulse"
)

const (
	minPercentage = 0.0
	maxPercentage = 125.0
)

// Volumes is the volume state of one input or output device
type Volumes struct {
	Muted    bool
	Channels pulse.ChannelVolumes
}

// VolumeToPercentage maps a native volume onto 0% (muted) .. 100% (norm)
func VolumeToPercentage(v pulse.Volume) float64 {
	volumeRange := float64(pulse.VolumeNorm) - float64(pulse.VolumeMuted)
	return (float64(v) - float64(pulse.VolumeMuted)) * 100 / volumeRange
}

// PercentageToVolume is the inverse of VolumeToPercentage, truncated to the native unit
func PercentageToVolume(percentage float64) pulse.Volume {
	volumeRange := float64(pulse.VolumeNorm) - float64(pulse.VolumeMuted)
	return pulse.Volume(float64(pulse.VolumeMuted) + percentage*volumeRange/100)
}

func clampPercentage(percentage float64) float64 {
	return math.Min(math.Max(percentage, minPercentage), maxPercentage)
}

// mapChannels applies action to every channel in percentage space and
// clamps the result before converting back
func (v *Volumes) mapChannels(action func(percentage float64) float64) {
	for i, channel := range v.Channels {
		adjusted := clampPercentage(action(VolumeToPercentage(channel)))
		v.Channels[i] = PercentageToVolume(adjusted)
	}
}

// Percentages returns every channel as a percentage
func (v Volumes) Percentages() []float64 {
	percentages := make([]float64, len(v.Channels))
	for i, channel := range v.Channels {
		percentages[i] = VolumeToPercentage(channel)
	}

	return percentages
}

// MaxPercentage returns the level of the loudest channel
func (v Volumes) MaxPercentage() float64 {
	if len(v.Channels) == 0 {
		return 0
	}

	return funk.MaxFloat64(v.Percentages())
}
