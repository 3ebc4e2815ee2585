package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath     string
	diagramPath    string
	activationPath string
	treeURL        string
	logLevel       string
	logFile        string

	log *os.File
}

func (g *globals) setupLogging(stderr io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	out := stderr
	if g.logFile != "" {
		f, err := os.OpenFile(g.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("--log-file: %w", err)
		}
		g.log = f
		out = f
	}
	treeview.SetLogger(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	return nil
}

func (g *globals) closeLog() {
	if g.log != nil {
		g.log.Close()
		g.log = nil
	}
}

func (g *globals) config() (treeview.Config, error) {
	if g.configPath == "" {
		return treeview.DefaultConfig(), nil
	}
	return treeview.LoadConfig(g.configPath)
}

func (g *globals) diagram() (*diagram.Diagram, error) {
	if g.diagramPath == "" {
		return diagram.Example(), nil
	}
	return diagram.Load(g.diagramPath)
}

// activation decodes --url or loads the activation file, whichever was
// given.
func (g *globals) activation() (*highlight.Activation, error) {
	if g.treeURL != "" {
		if g.activationPath != "" {
			return nil, errors.New("--url and --activation are mutually exclusive")
		}
		a, err := highlight.ParseTreeURL(g.treeURL)
		if err != nil {
			return nil, fmt.Errorf("--url: %w", err)
		}
		return &a, nil
	}
	if g.activationPath == "" {
		return nil, nil
	}
	a, err := highlight.LoadActivation(g.activationPath)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// load reads the config, diagram, and initial activation.
func (g *globals) load() (treeview.Config, *diagram.Diagram, *highlight.Activation, error) {
	cfg, err := g.config()
	if err != nil {
		return cfg, nil, nil, err
	}
	d, err := g.diagram()
	if err != nil {
		return cfg, nil, nil, err
	}
	a, err := g.activation()
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, d, a, nil
}

// follow starts watching the activation file and sends each successful
// reload on the returned channel. The channel is nil when no activation
// file was given, and closed when ctx is done.
func (g *globals) follow(ctx context.Context) <-chan highlight.Activation {
	if g.activationPath == "" {
		return nil
	}
	updates := make(chan highlight.Activation, 1)
	go func() {
		defer close(updates)
		err := highlight.Watch(ctx, g.activationPath, func(a highlight.Activation, err error) {
			if err != nil {
				treeview.Logger().Warn("activation reload failed", "path", g.activationPath, "error", err)
				return
			}
			select {
			case updates <- a:
			case <-ctx.Done():
			}
		})
		if err != nil {
			treeview.Logger().Warn("activation watch stopped", "path", g.activationPath, "error", err)
		}
	}()
	return updates
}
