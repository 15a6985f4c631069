package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate reports every invalid field. An empty result means the
// configuration is usable.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.APIURL == "" {
		errors = append(errors, ValidationError{
			Field:   "api_url",
			Message: "backend URL is required",
		})
	} else if u, err := url.Parse(c.APIURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errors = append(errors, ValidationError{
			Field:   "api_url",
			Message: fmt.Sprintf("invalid backend URL: %s", c.APIURL),
		})
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil || d <= 0 {
			errors = append(errors, ValidationError{
				Field:   "timeout",
				Message: "timeout must be a positive duration such as 90s or 2m",
			})
		}
	}

	if c.StartDir != "" {
		if info, err := os.Stat(c.StartDir); err != nil || !info.IsDir() {
			errors = append(errors, ValidationError{
				Field:   "start_dir",
				Message: fmt.Sprintf("not a directory: %s", c.StartDir),
			})
		}
	}

	return errors
}
