package volumectl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/MixyLabs/volume-ctl/pkg/volumectl/util"
)

// ConfigManager loads the optional user config file
type ConfigManager struct {
	logger     *zap.SugaredLogger
	userConfig *viper.Viper

	// set when the user passed --config, in which case the file must exist
	explicitPath string

	current Config
}

// Config is the canonical configuration after defaults and overrides
type Config struct {
	// sound server address, empty means the default ($PULSE_SERVER or the user's runtime socket)
	Server     string `mapstructure:"server"`
	ClientName string `mapstructure:"client_name"`

	Notifications NotificationConfig `mapstructure:"notifications"`
}

// NotificationConfig controls volume notifications
type NotificationConfig struct {
	Enabled      bool  `mapstructure:"enabled"`
	ProgressHint bool  `mapstructure:"progress_hint"`
	TimeoutMs    int32 `mapstructure:"timeout_ms"`

	Output NotificationClassConfig `mapstructure:"output"`
	Input  NotificationClassConfig `mapstructure:"input"`
}

// NotificationClassConfig holds the label and icon prefix of one device class
type NotificationClassConfig struct {
	Name string `mapstructure:"name"`
	Icon string `mapstructure:"icon"`
}

const (
	userConfigName = "config"
	configType     = "yaml"

	envPrefix = "VOLUME_CTL"

	configKeyServer                  = "server"
	configKeyClientName              = "client_name"
	configKeyNotificationsEnabled    = "notifications.enabled"
	configKeyNotificationsProgress   = "notifications.progress_hint"
	configKeyNotificationsTimeout    = "notifications.timeout_ms"
	configKeyNotificationsOutputName = "notifications.output.name"
	configKeyNotificationsOutputIcon = "notifications.output.icon"
	configKeyNotificationsInputName  = "notifications.input.name"
	configKeyNotificationsInputIcon  = "notifications.input.icon"

	defaultClientName = "volume-control"
)

// NewConfig creates a config manager. An empty path searches the user config directory.
func NewConfig(logger *zap.SugaredLogger, path string) (*ConfigManager, error) {
	logger = logger.Named("config")

	cc := &ConfigManager{
		logger:       logger,
		explicitPath: path,
	}

	userConfig := viper.New()
	userConfig.SetConfigType(configType)

	if path != "" {
		userConfig.SetConfigFile(path)
	} else {
		userConfig.SetConfigName(userConfigName)
		userConfig.AddConfigPath(util.ConfigDir())
	}

	userConfig.SetEnvPrefix(envPrefix)
	userConfig.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	userConfig.AutomaticEnv()

	userConfig.SetDefault(configKeyServer, "")
	userConfig.SetDefault(configKeyClientName, defaultClientName)
	userConfig.SetDefault(configKeyNotificationsEnabled, true)
	userConfig.SetDefault(configKeyNotificationsProgress, true)
	userConfig.SetDefault(configKeyNotificationsTimeout, -1)
	userConfig.SetDefault(configKeyNotificationsOutputName, "Volume")
	userConfig.SetDefault(configKeyNotificationsOutputIcon, "audio-volume")
	userConfig.SetDefault(configKeyNotificationsInputName, "Microphone")
	userConfig.SetDefault(configKeyNotificationsInputIcon, "microphone-sensitivity")

	cc.userConfig = userConfig

	logger.Debug("Created config instance")

	return cc, nil
}

// Load reads the config file (if any) and populates Current
func (cc *ConfigManager) Load() error {
	if cc.explicitPath != "" && !util.FileExists(cc.explicitPath) {
		cc.logger.Warnw("Config file not found", "path", cc.explicitPath)
		return fmt.Errorf("config file %s does not exist or is a directory", cc.explicitPath)
	}

	if err := cc.userConfig.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cc.explicitPath != "" || !errors.As(err, &notFound) {
			cc.logger.Warnw("Viper failed to read user config", "error", err)
			return fmt.Errorf("read user config: %w", err)
		}

		cc.logger.Debugw("No config file found, using defaults", "searched", util.ConfigDir())
	} else {
		cc.logger.Debugw("Loaded config file", "path", cc.userConfig.ConfigFileUsed())
	}

	if err := cc.populateFromViper(); err != nil {
		cc.logger.Warnw("Failed to populate config fields", "error", err)
		return fmt.Errorf("populate config fields: %w", err)
	}

	cc.logger.Debugw("Config values",
		"server", cc.current.Server,
		"clientName", cc.current.ClientName,
		"notifications", cc.current.Notifications.Enabled)

	return nil
}

// Current returns the loaded configuration
func (cc *ConfigManager) Current() *Config {
	return &cc.current
}

func (cc *ConfigManager) populateFromViper() error {
	// env overrides arrive as strings, so allow weak conversions
	err := cc.userConfig.Unmarshal(&cc.current, func(dConf *mapstructure.DecoderConfig) {
		dConf.WeaklyTypedInput = true
		dConf.ErrorUnused = true
	})
	if err != nil {
		return err
	}

	if cc.current.ClientName == "" {
		return errors.New("client_name must not be empty")
	}

	cc.logger.Debug("Populated config fields from viper")

	return nil
}

// style returns the notification presentation for a device class
func (c *Config) style(class DeviceClass) NotificationStyle {
	if class == Input {
		return NotificationStyle{
			Name:       c.Notifications.Input.Name,
			IconPrefix: c.Notifications.Input.Icon,
			ID:         inputNotificationID,
		}
	}

	return NotificationStyle{
		Name:       c.Notifications.Output.Name,
		IconPrefix: c.Notifications.Output.Icon,
		ID:         outputNotificationID,
	}
}
