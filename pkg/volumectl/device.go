package volumectl

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/MixyLabs/volume-ctl/pkg/volumectl/pulse"
)

// DeviceClass selects the default output or input device
type DeviceClass int

const (
	Output DeviceClass = iota
	Input
)

func (c DeviceClass) String() string {
	if c == Input {
		return "input"
	}

	return "output"
}

// Device reads and writes the volume of the default sink or source. Every
// method blocks until the server has answered.
type Device struct {
	logger *zap.SugaredLogger
	class  DeviceClass
	name   string

	loop *blockingLoop
	ctx  *pulse.Context
}

func newDevice(logger *zap.SugaredLogger, class DeviceClass, loop *blockingLoop, ctx *pulse.Context) *Device {
	name := pulse.DefaultSink
	if class == Input {
		name = pulse.DefaultSource
	}

	return &Device{
		logger: logger.Named("device").Named(class.String()),
		class:  class,
		name:   name,
		loop:   loop,
		ctx:    ctx,
	}
}

// Volumes fetches the current channel volumes and mute flag
func (d *Device) Volumes() (Volumes, error) {
	outcome, err := run(d.loop, func(slot *pulse.Slot[Volumes]) {
		cb := func(result pulse.ListResult, info *pulse.DeviceInfo) {
			switch result {
			case pulse.ListItem:
				slot.Succeed(Volumes{Muted: info.Mute, Channels: info.Volume})
				d.logger.Debugw("Got device info", "name", info.Name, "description", info.Description)
			case pulse.ListError:
				slot.Fail()
			case pulse.ListEnd:
			}
		}

		if d.class == Input {
			d.ctx.Introspect().GetSourceInfoByName(d.name, cb)
		} else {
			d.ctx.Introspect().GetSinkInfoByName(d.name, cb)
		}
	})
	if err != nil {
		return Volumes{}, err
	}

	if !outcome.OK {
		return Volumes{}, fmt.Errorf("get %s volume: %w", d.class, d.ctx.Errno())
	}

	d.logger.Debugw("Current volume",
		"channels", outcome.Value.Percentages(),
		"muted", outcome.Value.Muted)

	return outcome.Value, nil
}

// SetVolumes writes channel volumes back to the device
func (d *Device) SetVolumes(channels pulse.ChannelVolumes) error {
	outcome, err := run(d.loop, func(slot *pulse.Slot[struct{}]) {
		cb := successToSlot(slot)

		if d.class == Input {
			d.ctx.Introspect().SetSourceVolumeByName(d.name, channels, cb)
		} else {
			d.ctx.Introspect().SetSinkVolumeByName(d.name, channels, cb)
		}
	})
	if err != nil {
		return err
	}

	if !outcome.OK {
		return fmt.Errorf("set %s volume: %w", d.class, d.ctx.Errno())
	}

	d.logger.Debugw("Set volume", "channels", Volumes{Channels: channels}.Percentages())

	return nil
}

// SetMuted mutes or unmutes the device
func (d *Device) SetMuted(muted bool) error {
	outcome, err := run(d.loop, func(slot *pulse.Slot[struct{}]) {
		cb := successToSlot(slot)

		if d.class == Input {
			d.ctx.Introspect().SetSourceMuteByName(d.name, muted, cb)
		} else {
			d.ctx.Introspect().SetSinkMuteByName(d.name, muted, cb)
		}
	})
	if err != nil {
		return err
	}

	if !outcome.OK {
		return fmt.Errorf("set %s mute: %w", d.class, d.ctx.Errno())
	}

	d.logger.Debugw("Set mute state", "muted", muted)

	return nil
}

func successToSlot(slot *pulse.Slot[struct{}]) func(success bool) {
	return func(success bool) {
		if success {
			slot.Succeed(struct{}{})
		} else {
			slot.Fail()
		}
	}
}
