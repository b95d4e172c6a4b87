package volumectl

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/MixyLabs/volume-ctl/pkg/volumectl/pulse"
	"github.com/MixyLabs/volume-ctl/pkg/volumectl/util"
)

// connect drives the main loop until ctx is connected or has failed
func connect(logger *zap.SugaredLogger, loop *blockingLoop, ctx *pulse.Context, server string) error {
	logger.Debugw("Context state", "state", ctx.State())

	if err := ctx.Connect(server); err != nil {
		logger.Errorw("Failed to start connecting to sound server", "error", err)
		return fmt.Errorf("connect to sound server: %w", err)
	}

	err := loop.runUntil(func() bool {
		state := ctx.State()
		logger.Logw(TraceLevel, "Context state", "state", state)
		return state.IsTerminal()
	})
	if err != nil {
		logger.Errorw("Error in main loop", "error", err)
		return err
	}

	switch state := ctx.State(); state {
	case pulse.Ready:
	case pulse.Failed:
		logger.Errorw("Failed to connect to sound server", "error", ctx.Errno())
		explainConnectFailure(logger)
		return fmt.Errorf("connect to sound server: %w", ctx.Errno())
	default:
		logger.Errorw("Sound server context in unexpected state", "state", state, "lastError", ctx.Errno())
		return fmt.Errorf("sound server context in unexpected state %s: %w", state, ctx.Errno())
	}

	logServerInfo(logger, loop, ctx)

	return nil
}

func logServerInfo(logger *zap.SugaredLogger, loop *blockingLoop, ctx *pulse.Context) {
	outcome, err := run(loop, func(slot *pulse.Slot[pulse.ServerInfo]) {
		ctx.ServerInfo(func(info *pulse.ServerInfo) {
			if info == nil {
				slot.Fail()
				return
			}
			slot.Succeed(*info)
		})
	})
	if err != nil || !outcome.OK {
		logger.Debugw("Failed to query server info", "error", ctx.Errno())
		return
	}

	logger.Debugw("Connected to sound server",
		"package", outcome.Value.PackageName,
		"version", outcome.Value.PackageVersion,
		"defaultSink", outcome.Value.DefaultSinkName,
		"defaultSource", outcome.Value.DefaultSourceName)
}

// explainConnectFailure helps telling "no server running" from other failures
func explainConnectFailure(logger *zap.SugaredLogger) {
	running, err := util.SoundServerProcesses()
	if err != nil {
		logger.Debugw("Failed to look for sound server processes", "error", err)
		return
	}

	if len(running) == 0 {
		logger.Warn("No PulseAudio or PipeWire process seems to be running")
		return
	}

	logger.Debugw("Sound server processes are running", "processes", running)
}
