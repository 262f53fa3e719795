package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaki95/tracklist-cue/config"
)

func TestNewWebSource(t *testing.T) {
	cfg := config.Default()
	cfg.Web.Selector = "#description"

	src := NewWebSource(cfg, "https://example.com/watch", "")
	assert.Equal(t, "https://example.com/watch", src.URL)
	assert.Equal(t, "#description", src.Selector)

	src = NewWebSource(cfg, "https://example.com/watch", "pre")
	assert.Equal(t, "pre", src.Selector)

	src = NewWebSource(nil, "https://example.com/watch", "")
	assert.Equal(t, "body", src.Selector)
}
