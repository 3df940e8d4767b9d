package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/l1na-forever/mpris-notifier/logger"
)

// Watch reloads the configuration whenever the config file changes on disk
// and hands the freshly built Config to onChange. Format and policy options
// take effect on the next notification; bus wiring is fixed at startup.
func Watch(onChange func(*Config)) {
	viper.OnConfigChange(func(in fsnotify.Event) {
		logger.Info("[config] reloading after change to %s", in.Name)
		cfg, err := New()
		if err != nil {
			logger.Warn("[config] reload failed, keeping previous configuration: %v", err)
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}
