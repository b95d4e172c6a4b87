package volumectl

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/MixyLabs/volume-ctl/pkg/volumectl/util"
)

const (
	crashlogFilename        = "volume-ctl-crash-%s.log"
	crashlogTimestampFormat = "2006.01.02-15.04.05"

	crashMessage = `-----------------------------------------------------------------
                     volume-ctl crashlog
-----------------------------------------------------------------
Unfortunately, volume-ctl has crashed.
To help diagnose the issue, a crashlog has been generated.
-----------------------------------------------------------------
Time: %s
Panic occurred: %s
Stack trace:
%s
-----------------------------------------------------------------
`
)

// RecoverFromPanic is meant to be deferred by the caller of Run. It writes a
// crashlog, tells the user where to find it and exits with status 1.
func (v *VolumeCtl) RecoverFromPanic() {
	r := recover()

	if r == nil {
		return
	}

	crashlogPath, err := writeCrashlog(util.StateDir(), time.Now(), r, debug.Stack())
	if err != nil {
		v.logger.Errorw("Encountered panic, failed to write crashlog", "panic", r, "error", err)
	} else {
		v.logger.Errorw("Encountered and logged panic, crashing",
			"crashlogPath", crashlogPath,
			"error", r)

		v.notifier.Notify("volume-ctl crashed",
			fmt.Sprintf("More details in %s", crashlogPath))
	}

	v.logger.Errorw("Quitting", "exitCode", 1)
	_ = v.logger.Sync()
	v.exit(1)
}

func writeCrashlog(dir string, now time.Time, r interface{}, stack []byte) (string, error) {
	if err := util.EnsureDirExists(dir); err != nil {
		return "", fmt.Errorf("ensure crashlog dir exists: %w", err)
	}

	crashlogBytes := bytes.NewBufferString(fmt.Sprintf(crashMessage, now.Format(crashlogTimestampFormat), r, stack))
	crashlogPath := filepath.Join(dir, fmt.Sprintf(crashlogFilename, now.Format(crashlogTimestampFormat)))

	if err := os.WriteFile(crashlogPath, crashlogBytes.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write crashlog file contents: %w", err)
	}

	return crashlogPath, nil
}
