package editor

import (
	"time"

	"go.uber.org/zap"

	"github.com/iw2rmb/scribe/store"
)

const (
	DefaultFadeDelay       = 260 * time.Millisecond
	DefaultSettleDelay     = time.Millisecond
	DefaultPrefillDelay    = 100 * time.Millisecond
	DefaultToolbarOffset   = 1
	DefaultPlaceholderHref = "/"
)

// Config configures the editor Model.
type Config struct {
	// Seed content used when the store has no value for a field.
	Title    string
	BodyHTML string

	// Store persists title and body. Nil or unavailable disables persistence.
	Store store.Store

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Clipboard is optional; copy/cut/paste are no-ops without it.
	Clipboard Clipboard

	// KeyMap defaults to DefaultKeyMap when left empty.
	KeyMap KeyMap
	Style  Style

	// ShowStatus reserves the last row for a word-count status line.
	ShowStatus bool

	// Timer delays. Zero selects the default.
	FadeDelay    time.Duration
	SettleDelay  time.Duration
	PrefillDelay time.Duration

	// ToolbarOffset is the number of rows the toolbar sits above the
	// selection.
	ToolbarOffset int

	// PlaceholderHref is the temporary link target used while the URL input
	// is open.
	PlaceholderHref string

	// OnChange is called after every update that changed the document,
	// the selection or the toolbar.
	OnChange func(ChangeEvent)
}

func normalizeConfig(cfg Config) Config {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if keyMapIsZero(cfg.KeyMap) {
		cfg.KeyMap = DefaultKeyMap()
	}
	if cfg.FadeDelay <= 0 {
		cfg.FadeDelay = DefaultFadeDelay
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.PrefillDelay <= 0 {
		cfg.PrefillDelay = DefaultPrefillDelay
	}
	if cfg.ToolbarOffset < 0 {
		cfg.ToolbarOffset = 0
	} else if cfg.ToolbarOffset == 0 {
		cfg.ToolbarOffset = DefaultToolbarOffset
	}
	if cfg.PlaceholderHref == "" {
		cfg.PlaceholderHref = DefaultPlaceholderHref
	}
	return cfg
}
