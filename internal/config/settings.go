package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied before any file or environment override.
const (
	DefaultListenAddr     = ":3001"
	DefaultDownloadsDir   = "downloads"
	DefaultYTDLPPath      = "yt-dlp"
	DefaultFFmpegPath     = "ffmpeg"
	DefaultSessionTTL     = time.Hour
	DefaultSweepInterval  = time.Hour
	DefaultProbeTimeout   = 60 * time.Second
	DefaultOutputTemplate = "%(title)s.%(ext)s"

	configName = "turboplaylist"
	envPrefix  = "TP"
)

// Settings holds the full engine configuration.
type Settings struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	DownloadsDir   string        `mapstructure:"downloads_dir"`
	YTDLPPath      string        `mapstructure:"ytdlp_path"`
	FFmpegPath     string        `mapstructure:"ffmpeg_path"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	ProbeTimeout   time.Duration `mapstructure:"probe_timeout"`
	OutputTemplate string        `mapstructure:"output_template"`
}

// Load reads the optional turboplaylist config file from the working
// directory or ~/.config/turboplaylist, applies TP_* environment overrides
// and returns the merged settings. A missing config file is not an error.
func Load() (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/" + configName)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("downloads_dir", DefaultDownloadsDir)
	v.SetDefault("ytdlp_path", DefaultYTDLPPath)
	v.SetDefault("ffmpeg_path", DefaultFFmpegPath)
	v.SetDefault("session_ttl", DefaultSessionTTL)
	v.SetDefault("sweep_interval", DefaultSweepInterval)
	v.SetDefault("probe_timeout", DefaultProbeTimeout)
	v.SetDefault("output_template", DefaultOutputTemplate)
}
