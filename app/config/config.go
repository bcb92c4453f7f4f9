package config

import "time"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1|max:65535"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Dir   string `yaml:"dir"`
}

type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Driver        string        `yaml:"driver" validate:"in:memory,redis"`
	Size          int           `yaml:"size" validate:"min:0"`
	TTL           time.Duration `yaml:"ttl"`
	RedisAddress  string        `yaml:"redisAddress"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB" validate:"min:0"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type RateLimitConfig struct {
	ResponsesPerMinute int `yaml:"responsesPerMinute" validate:"min:0"`
	Burst              int `yaml:"burst" validate:"min:0"`
}

// BlogConfig names one blog of the site and its properties.
type BlogConfig struct {
	ID         string            `yaml:"id"`
	Properties map[string]string `yaml:"properties"`
}

type Config struct {
	AppName       string
	Debug         bool
	Path          string
	WebServer     Server          `yaml:"webServer"`
	Logger        LoggerConfig    `yaml:"logger"`
	DataDirectory string          `yaml:"dataDirectory" validate:"required"`
	URL           string          `yaml:"url"`
	Cache         CacheConfig     `yaml:"cache"`
	Metrics       MetricsConfig   `yaml:"metrics"`
	RateLimit     RateLimitConfig `yaml:"rateLimit"`
	Blogs         []BlogConfig    `yaml:"blogs"`
}
