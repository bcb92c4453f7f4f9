package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/gookit/validate"
)

var blogIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type CnfValidator struct {
	conf *Config
}

func NewCnfValidator(conf *Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks struct tags, then the blog list, which tags cannot express.
func (v *CnfValidator) Validate() error {
	sv := validate.Struct(v.conf)
	if !sv.Validate() {
		return sv.Errors
	}

	if v.conf.Cache.Enabled && v.conf.Cache.Driver == "redis" && v.conf.Cache.RedisAddress == "" {
		return errors.New("cache.redisAddress is required for the redis driver")
	}

	seen := make(map[string]struct{}, len(v.conf.Blogs))
	for i, b := range v.conf.Blogs {
		if !blogIDPattern.MatchString(b.ID) {
			return fmt.Errorf("blogs[%d]: invalid id %q", i, b.ID)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("blogs[%d]: duplicate id %q", i, b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}
