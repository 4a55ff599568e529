package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// SetDefaults installs the ambient settings a bare install runs with.
func SetDefaults() {
	viper.SetDefault("output.dir", "output")
	viper.SetDefault("export.format", "wav")
	viper.SetDefault("draft.model", "gpt-4o")
	viper.SetDefault("tts.openai.delay", time.Second)
	viper.SetDefault("log.level", "info")
}

// NewLogger builds the root logger from the configured level.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
