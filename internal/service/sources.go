package service

import (
	"github.com/jaki95/tracklist-cue/config"
	"github.com/jaki95/tracklist-cue/internal/tracklist"
)

// NewWebSource builds a web source using the configured fetch options. An
// empty selector falls back to the configured one.
func NewWebSource(cfg *config.Config, url, selector string) *tracklist.WebSource {
	if cfg == nil {
		cfg = config.Default()
	}
	if selector == "" {
		selector = cfg.Web.Selector
	}
	return tracklist.NewWebSource(url, selector, tracklist.WebOptions{
		UserAgent:  cfg.Web.UserAgent,
		Timeout:    cfg.Web.Timeout,
		MaxRetries: cfg.Web.MaxRetries,
		CacheDir:   cfg.Web.CacheDir,
	})
}
