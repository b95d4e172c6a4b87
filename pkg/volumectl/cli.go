package volumectl

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Options is everything parsed from the command line
type Options struct {
	// count of -v minus count of -q
	Verbosity  int
	ConfigPath string
	NoNotify   bool

	Class   DeviceClass
	Command Command

	Out io.Writer
}

// RunFunc executes a fully parsed invocation
type RunFunc func(opts Options) error

// NewRootCmd builds the command tree. run is called once a device command was parsed.
func NewRootCmd(version string, run RunFunc) *cobra.Command {
	var (
		verbose    int
		quiet      int
		configPath string
		noNotify   bool
	)

	cmd := &cobra.Command{
		Use:   "volume-ctl",
		Short: "Control the volume of your PulseAudio/PipeWire sound server",
		Long: `volume-ctl controls the volume of the default input and output device of
your PulseAudio or PipeWire sound server and shows a notification with the
new volume.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         requireSubcommand,
	}

	cmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Show more log messages (repeatable)")
	cmd.PersistentFlags().CountVarP(&quiet, "quiet", "q", "Show less log messages (repeatable)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ~/.config/volume-ctl/config.yaml)")
	cmd.PersistentFlags().BoolVar(&noNotify, "no-notify", false, "Don't show a notification")

	execute := func(c *cobra.Command, class DeviceClass, command Command) error {
		// failures past this point are logged by run itself
		c.SilenceErrors = true

		return run(Options{
			Verbosity:  verbose - quiet,
			ConfigPath: configPath,
			NoNotify:   noNotify,
			Class:      class,
			Command:    command,
			Out:        c.OutOrStdout(),
		})
	}

	cmd.AddCommand(
		newDeviceCmd(Output, "Control the volume of your output device (speakers, headphones, ...)", execute),
		newDeviceCmd(Input, "Control the volume of your input device (microphone, ...)", execute),
	)

	return cmd
}

type executeFunc func(c *cobra.Command, class DeviceClass, command Command) error

func newDeviceCmd(class DeviceClass, short string, execute executeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   class.String(),
		Short: short,
		Args:  cobra.NoArgs,
		RunE:  requireSubcommand,
	}

	valueCmd := func(action Action, short string) *cobra.Command {
		return &cobra.Command{
			Use:   action.String() + " PERCENTAGE",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				value, err := ParsePercentage(args[0])
				if err != nil {
					return err
				}
				return execute(c, class, Command{Action: action, Value: value})
			},
		}
	}

	flagCmd := func(action Action, short string) *cobra.Command {
		return &cobra.Command{
			Use:   action.String(),
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, args []string) error {
				return execute(c, class, Command{Action: action})
			},
		}
	}

	cmd.AddCommand(
		valueCmd(ActionUp, "Increase the volume by the given percentage"),
		valueCmd(ActionDown, "Decrease the volume by the given percentage"),
		valueCmd(ActionSet, "Set the volume to the given percentage"),
		flagCmd(ActionToggleMute, "Toggle between muted and unmuted"),
		flagCmd(ActionMute, "Mute the volume"),
		flagCmd(ActionUnmute, "Unmute the volume"),
		flagCmd(ActionGet, "Print the current volume"),
	)

	return cmd
}

// requireSubcommand runs for command groups invoked without an action
func requireSubcommand(c *cobra.Command, _ []string) error {
	_ = c.Help()
	return fmt.Errorf("%s requires a subcommand", c.CommandPath())
}
