package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const AppName = "blogd"

// DefaultBlogID is used when the configuration lists no blogs.
const DefaultBlogID = "default"

func NewConfigProvider(flags *CliFlags) (*Config, error) {
	var conf Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8080)
	v.SetDefault("logger.level", "info")
	v.SetDefault("dataDirectory", "${user.home}/blogd")
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.size", 32)
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("rateLimit.responsesPerMinute", 6)
	v.SetDefault("rateLimit.burst", 3)

	v.BindEnv("logger.level", "BLOGD_LOG_LEVEL")
	v.BindEnv("dataDirectory", "BLOGD_DATA_DIR")
	v.BindEnv("webServer.port", "BLOGD_PORT")
	v.BindEnv("cache.enabled", "BLOGD_CACHE_ENABLED")
	v.BindEnv("cache.driver", "BLOGD_CACHE_DRIVER")
	v.BindEnv("cache.redisAddress", "BLOGD_REDIS_ADDRESS")
	v.BindEnv("metrics.enabled", "BLOGD_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	if len(conf.Blogs) == 0 {
		conf.Blogs = []BlogConfig{{ID: DefaultBlogID}}
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	conf.DataDirectory = EvaluateDirectory(conf.DataDirectory)
	conf.URL = NormalizeURL(conf.URL)

	return &conf, nil
}
