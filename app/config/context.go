package config

import (
	"os"
	"runtime"
	"strings"
	"time"
)

// Set at build time with -ldflags "-X blogd/app/config.Version=...".
var (
	Version   = "dev"
	BuildDate = "unknown"
)

const userHomeVariable = "${user.home}"

// PlatformContext describes the running installation.
type PlatformContext struct {
	Version         string
	BuildDate       string
	StartTime       time.Time
	DataDirectory   string
	URL             string
	FileUploadSize  int64
	FileUploadQuota int64
}

func NewPlatformContext(conf *Config) *PlatformContext {
	return &PlatformContext{
		Version:         Version,
		BuildDate:       BuildDate,
		StartTime:       time.Now(),
		DataDirectory:   conf.DataDirectory,
		URL:             conf.URL,
		FileUploadSize:  2048,
		FileUploadQuota: -1,
	}
}

func (c *PlatformContext) Uptime(now time.Time) time.Duration {
	return now.Sub(c.StartTime)
}

// MemoryUsage returns heap bytes in use and bytes obtained from the OS.
func (c *PlatformContext) MemoryUsage() (used, total uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc, m.Sys
}

// EvaluateDirectory expands a leading ${user.home}.
func EvaluateDirectory(dir string) string {
	if !strings.HasPrefix(dir, userHomeVariable) {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return home + strings.TrimPrefix(dir, userHomeVariable)
}

// NormalizeURL ensures a non-empty URL ends with a slash.
func NormalizeURL(url string) string {
	if url == "" || strings.HasSuffix(url, "/") {
		return url
	}
	return url + "/"
}
