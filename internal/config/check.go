package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	renderStyles   = []string{"auto", "dark", "light", "dracula", "notty", "pink", "tokyo-night", "ascii"}
	renderThemes   = []string{"light", "dark"}
	analyticsSinks = []string{"log", "prometheus", "both", "none"}
)

// CheckConfigValidity reports every problem in v as one joined error.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("storage.backend")))
	if !slices.Contains(storageBackends, backend) {
		add("storage.backend must be one of %s", strings.Join(storageBackends, ", "))
	}
	if raw := strings.TrimSpace(v.GetString("storage.url")); raw != "" && strings.Contains(raw, "://") {
		if _, err := url.Parse(raw); err != nil {
			add("storage.url is invalid: %v", err)
		}
	}

	if v.GetInt64("fetch.max_bytes") <= 0 {
		add("fetch.max_bytes must be greater than 0")
	}
	if d, err := time.ParseDuration(v.GetString("fetch.timeout")); err != nil || d <= 0 {
		add("fetch.timeout must be a positive duration")
	}

	if s := strings.ToLower(v.GetString("render.style")); !slices.Contains(renderStyles, s) {
		add("render.style must be one of %s", strings.Join(renderStyles, ", "))
	}
	if v.GetInt("render.word_wrap") < 0 {
		add("render.word_wrap must not be negative")
	}
	if t := strings.ToLower(v.GetString("render.theme")); !slices.Contains(renderThemes, t) {
		add("render.theme must be light or dark")
	}

	if strings.TrimSpace(v.GetString("server.addr")) == "" {
		add("server.addr is required")
	}

	if s := strings.ToLower(v.GetString("analytics.sink")); !slices.Contains(analyticsSinks, s) {
		add("analytics.sink must be one of %s", strings.Join(analyticsSinks, ", "))
	}

	return errors.Join(errs...)
}
