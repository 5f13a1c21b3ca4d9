package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/iw2rmb/scribe"
	"github.com/iw2rmb/scribe/doc"
	"github.com/iw2rmb/scribe/editor"
	"github.com/iw2rmb/scribe/internal/config"
	"github.com/iw2rmb/scribe/internal/logging"
	"github.com/iw2rmb/scribe/internal/seed"
	"github.com/iw2rmb/scribe/store"
)

type model struct {
	editor editor.Model
}

func newModel(cfg config.Config, s store.Store, log *zap.Logger) model {
	ecfg := editor.Config{
		Title:           seed.Title,
		BodyHTML:        seed.BodyHTML,
		Store:           s,
		Logger:          log,
		Style:           editor.DefaultStyle(),
		ShowStatus:      true,
		FadeDelay:       cfg.Editor.FadeDelay,
		SettleDelay:     cfg.Editor.SettleDelay,
		PrefillDelay:    cfg.Editor.PrefillDelay,
		ToolbarOffset:   cfg.Editor.ToolbarOffset,
		PlaceholderHref: cfg.Editor.PlaceholderHref,
	}
	if clip := (editor.SystemClipboard{}); !clip.Unsupported() {
		ecfg.Clipboard = clip
	}
	return model{editor: editor.New(ecfg)}
}

func (m model) Init() tea.Cmd { return m.editor.Init() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m model) View() string { return m.editor.View() }

func main() {
	configPath := flag.String("config", "scribe.yaml", "path to the YAML config file")
	exportMarkdown := flag.Bool("export-markdown", false, "print the saved document as Markdown and exit")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(scribe.VersionTag())
		return
	}
	if err := run(*configPath, *exportMarkdown); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(configPath string, exportMarkdown bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Config{Path: cfg.Log.Path, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	s := openStore(cfg.Store, log)
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn("store close failed", zap.Error(err))
		}
	}()
	log.Info("scribe starting",
		zap.String("version", scribe.Version()),
		zap.String("store", cfg.Store.Driver))

	if exportMarkdown {
		return printMarkdown(s)
	}

	p := tea.NewProgram(newModel(cfg, s, log), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

// openStore opens the configured backend. A backend that cannot be opened is
// replaced by store.Nop, so the editor starts from the seed content and never
// saves.
func openStore(cfg config.StoreConfig, log *zap.Logger) store.Store {
	s, err := store.Open(store.Config{
		Driver:    cfg.Driver,
		Path:      cfg.Path,
		RedisURL:  cfg.RedisURL,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		log.Warn("store unavailable, continuing without persistence",
			zap.String("driver", cfg.Driver),
			zap.Error(err))
		return store.Nop{}
	}
	return s
}

// printMarkdown writes the saved document, or the seed document when nothing
// is saved, to stdout.
func printMarkdown(s store.Store) error {
	ctx := context.Background()
	c := store.Content{Title: seed.Title, Body: seed.BodyHTML}
	if s.Available(ctx) {
		saved, ok, err := s.Load(ctx)
		if err != nil {
			return err
		}
		if ok && saved.Title != "" {
			c.Title = saved.Title
		}
		if ok && saved.Body != "" {
			c.Body = saved.Body
		}
	}

	d := doc.New()
	d.SetTitle(c.Title)
	if err := d.SetBodyHTML(c.Body); err != nil {
		return err
	}
	md, err := d.Markdown()
	if err != nil {
		return err
	}
	fmt.Println(md)
	return nil
}
