// Package volumectl adjusts or mutes the default input and output devices of
// a PulseAudio or PipeWire sound server and pops a desktop notification with
// the new state.
package volumectl

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/MixyLabs/volume-ctl/pkg/volumectl/pulse"
	"github.com/MixyLabs/volume-ctl/pkg/volumectl/util"
)

// VolumeCtl is the main entity running a single command against the sound server
type VolumeCtl struct {
	logger         *zap.SugaredLogger
	notifier       Notifier
	volumeNotifier *DBusNotifier
	configMan      *ConfigManager

	out      io.Writer
	noNotify bool

	// swapped out in tests
	dial          pulse.DialFunc
	exit          func(code int)
	notifySignals func() chan os.Signal
	stopSignals   func(chan os.Signal)
}

// NewVolumeCtl creates a VolumeCtl instance from parsed command line options
func NewVolumeCtl(logger *zap.SugaredLogger, opts Options) (*VolumeCtl, error) {
	logger = logger.Named("volumectl")

	notifier, err := NewToastNotifier(logger)
	if err != nil {
		logger.Errorw("Failed to create ToastNotifier", "error", err)
		return nil, fmt.Errorf("create new ToastNotifier: %w", err)
	}

	config, err := NewConfig(logger, opts.ConfigPath)
	if err != nil {
		logger.Errorw("Failed to create Config", "error", err)
		return nil, fmt.Errorf("create new Config: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	v := &VolumeCtl{
		logger:    logger,
		notifier:  notifier,
		configMan: config,
		out:       out,
		noNotify:  opts.NoNotify,

		exit:          os.Exit,
		notifySignals: util.SetupCloseHandler,
		stopSignals:   util.ReleaseCloseHandler,
	}

	logger.Debug("Created volumectl instance")

	return v, nil
}

func (v *VolumeCtl) currConf() *Config {
	return v.configMan.Current()
}

// Initialize loads the configuration and sets up notification delivery
func (v *VolumeCtl) Initialize() error {
	v.logger.Debug("Initializing")

	if err := v.configMan.Load(); err != nil {
		v.logger.Errorw("Failed to load config during initialization", "error", err)
		return fmt.Errorf("load config during init: %w", err)
	}

	notifications := v.currConf().Notifications
	if notifications.Enabled && !v.noNotify {
		// only toasts can carry the volume icon
		fallback, _ := v.notifier.(*ToastNotifier)
		v.volumeNotifier = NewDBusNotifier(v.logger, fallback, notifications)
	} else {
		v.logger.Debug("Notifications disabled")
	}

	return nil
}

// Run connects to the sound server, applies command to the device of the
// given class and shows a notification about the result
func (v *VolumeCtl) Run(class DeviceClass, command Command) error {
	logger := v.logger.With("device", class.String())
	logger.Debugw("Running command", "command", command.String())

	loop := pulse.NewMainloop()
	defer loop.Free()

	releaseInterruptHandler := v.setupInterruptHandler(loop)
	defer releaseInterruptHandler()

	var contextOptions []pulse.ContextOption
	if v.dial != nil {
		contextOptions = append(contextOptions, pulse.WithDialer(v.dial))
	}

	ctx := pulse.NewContext(v.logger, loop, v.currConf().ClientName, contextOptions...)
	defer ctx.Disconnect()

	blocking := &blockingLoop{
		logger: v.logger.Named("loop"),
		loop:   loop,
		exit:   v.exit,
	}

	if err := connect(logger, blocking, ctx, v.currConf().Server); err != nil {
		return err
	}

	device := newDevice(v.logger, class, blocking, ctx)

	volumes, err := device.Volumes()
	if err != nil {
		logger.Errorw("Failed to get volume", "error", err)
		return err
	}

	style := v.currConf().style(class)

	if !command.Action.Mutates() {
		fmt.Fprintln(v.out, RenderNotification(style, volumes).Summary)
		return nil
	}

	command.Apply(&volumes)

	if err := device.SetVolumes(volumes.Channels); err != nil {
		logger.Errorw("Failed to set volume", "error", err)
		return err
	}

	if err := device.SetMuted(volumes.Muted); err != nil {
		logger.Errorw("Failed to mute/unmute volume", "error", err)
		return err
	}

	logger.Debugw("Applied command",
		"command", command.String(),
		"level", fmt.Sprintf("%.0f%%", volumes.MaxPercentage()),
		"muted", volumes.Muted)

	// the loop is not pumped anymore, signals get their default behavior back
	releaseInterruptHandler()

	v.showNotification(style, volumes)

	return nil
}

func (v *VolumeCtl) showNotification(style NotificationStyle, volumes Volumes) {
	if v.volumeNotifier == nil {
		return
	}

	v.volumeNotifier.Show(RenderNotification(style, volumes))
}

// setupInterruptHandler turns SIGINT/SIGTERM into a main loop quit request.
// The returned release func may be called more than once.
func (v *VolumeCtl) setupInterruptHandler(loop *pulse.Mainloop) func() {
	interruptChannel := v.notifySignals()
	done := make(chan struct{})

	go func() {
		select {
		case signal := <-interruptChannel:
			v.logger.Debugw("Interrupted", "signal", signal)
			loop.Quit(util.SignalExitCode(signal))
		case <-done:
		}
	}()

	var once sync.Once

	return func() {
		once.Do(func() {
			v.stopSignals(interruptChannel)
			close(done)
		})
	}
}
