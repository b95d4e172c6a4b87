package main

import (
	"fmt"
	"os"

	"github.com/MixyLabs/volume-ctl/pkg/volumectl"
)

var (
	gitCommit  string
	versionTag string
	buildType  string
)

func main() {
	root := volumectl.NewRootCmd(versionString(), execute)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func execute(opts volumectl.Options) error {
	logger, err := volumectl.NewLogger(buildType, opts.Verbosity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return err
	}
	defer func() { _ = logger.Sync() }()

	named := logger.Named("main")
	named.Debugw("Version info",
		"gitCommit", gitCommit,
		"versionTag", versionTag,
		"buildType", buildType)

	v, err := volumectl.NewVolumeCtl(logger, opts)
	if err != nil {
		named.Errorw("Failed to create volumectl object", "error", err)
		return err
	}

	defer v.RecoverFromPanic()

	if err := v.Initialize(); err != nil {
		named.Errorw("Failed to initialize volumectl", "error", err)
		return err
	}

	return v.Run(opts.Class, opts.Command)
}

func versionString() string {
	identifier := gitCommit
	if versionTag != "" {
		identifier = versionTag
	}

	if identifier == "" {
		return "dev"
	}

	if buildType == "" {
		return identifier
	}

	return fmt.Sprintf("%s-%s", buildType, identifier)
}
