package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/l1na-forever/mpris-notifier/logger"
)

const (
	AppName    = "mpris-notifier"
	AppVersion = "0.1.0"
)

// Config is the immutable configuration value handed to the dispatcher at
// startup. A live reload builds a fresh Config; existing ones never mutate.
type Config struct {
	// Format string for the notification subject text
	SubjectFormat string

	// Format string for the notification body text
	BodyFormat string

	// Joins multi-valued fields such as artists before substitution
	JoinString string

	// Album artwork fetch, bounded by AlbumArtDeadline
	EnableAlbumArt   bool
	AlbumArtDeadline time.Duration

	// Which status-only transitions are notify-worthy
	NotifyOnResume bool
	NotifyOnPause  bool

	// Commands run after each sent notification, each an argv list
	Commands [][]string

	LogLevel        logger.Level
	ComponentLevels map[string]logger.Level
}

// parseLogLevel converts a string to a logger.Level
func parseLogLevel(levelStr string) logger.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return logger.DEBUG
	case "INFO":
		return logger.INFO
	case "WARN":
		return logger.WARN
	case "ERROR":
		return logger.ERROR
	case "FATAL":
		return logger.FATAL
	default:
		return logger.WARN // default
	}
}

// parseCommands coerces the loosely-typed commands list from the config file
// into argv lists, dropping malformed entries individually.
func parseCommands(raw interface{}) [][]string {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	var commands [][]string
	for _, entry := range list {
		args, ok := entry.([]interface{})
		if !ok || len(args) == 0 {
			continue
		}
		argv := make([]string, 0, len(args))
		for _, arg := range args {
			if s, ok := arg.(string); ok {
				argv = append(argv, s)
			}
		}
		if len(argv) > 0 {
			commands = append(commands, argv)
		}
	}
	return commands
}

func componentLevels(raw map[string]string) map[string]logger.Level {
	if len(raw) == 0 {
		return nil
	}
	levels := make(map[string]logger.Level, len(raw))
	for component, level := range raw {
		levels[component] = parseLogLevel(level)
	}
	return levels
}

func New() (*Config, error) {
	viper.SetDefault("subject_format", "{track}")
	viper.SetDefault("body_format", "{album} - {artist}")
	viper.SetDefault("join_string", ", ")

	viper.SetDefault("enable_album_art", true)
	viper.SetDefault("album_art_deadline", 1000)

	viper.SetDefault("notify_on_resume", true)
	viper.SetDefault("notify_on_pause", false)

	viper.SetDefault("commands", []interface{}{})
	viper.SetDefault("LogLevel", "WARN")

	// Load from configuration file when present; defaults otherwise
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join("/etc", AppName))
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", AppName))
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with defaults if not found
		if _, isNotFound := err.(viper.ConfigFileNotFoundError); !isNotFound {
			logger.Warn("[config] failed to read config: %v", err)
		}
	}

	deadline := time.Duration(viper.GetInt("album_art_deadline")) * time.Millisecond
	if deadline <= 0 {
		deadline = time.Second
	}

	cfg := Config{
		SubjectFormat:    viper.GetString("subject_format"),
		BodyFormat:       viper.GetString("body_format"),
		JoinString:       viper.GetString("join_string"),
		EnableAlbumArt:   viper.GetBool("enable_album_art"),
		AlbumArtDeadline: deadline,
		NotifyOnResume:   viper.GetBool("notify_on_resume"),
		NotifyOnPause:    viper.GetBool("notify_on_pause"),
		Commands:         parseCommands(viper.Get("commands")),
		LogLevel:         parseLogLevel(viper.GetString("LogLevel")),
		ComponentLevels:  componentLevels(viper.GetStringMapString("log_levels")),
	}

	return &cfg, nil
}
