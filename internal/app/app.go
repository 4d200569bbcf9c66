// Package app wires the player, loader, favorites and shortcuts into the
// controls of the player page.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/spherecast/spherecast/internal/favorites"
	"github.com/spherecast/spherecast/internal/loader"
	"github.com/spherecast/spherecast/internal/player"
	"github.com/spherecast/spherecast/internal/shortcut"
)

// Input is the stream URL field.
type Input interface {
	Value() string
	SetValue(v string)
}

type Config struct {
	Loop      *player.Loop
	Player    *player.Player
	Loader    *loader.Loader
	Favorites *favorites.Store
	Input     Input
}

// App runs on the player loop. Page controls call Do with the action named
// in their data-action attribute.
type App struct {
	ctx       context.Context
	loop      *player.Loop
	player    *player.Player
	loader    *loader.Loader
	favorites *favorites.Store
	input     Input

	// current is the URL of the last load request, the one "add to
	// favorites" saves.
	current string
}

func New(ctx context.Context, cfg Config) *App {
	a := &App{
		ctx:       ctx,
		loop:      cfg.Loop,
		player:    cfg.Player,
		loader:    cfg.Loader,
		favorites: cfg.Favorites,
		input:     cfg.Input,
	}
	shortcut.New(cfg.Player).Bind(cfg.Loop)
	return a
}

// Current is the URL of the last load request.
func (a *App) Current() string { return a.current }

// Load resolves source off the loop and applies the result on it.
func (a *App) Load(source string) {
	source = strings.TrimSpace(source)
	a.current = source

	go func() {
		resp, err := a.loader.Fetch(a.ctx, source)
		a.loop.Submit(func() {
			a.loader.Apply(source, resp, err)
		})
	}()
}

type action func(a *App, arg string) error

var actions = map[string]action{
	"load": func(a *App, _ string) error {
		a.Load(a.input.Value())
		return nil
	},
	"quality": func(a *App, arg string) error {
		a.loader.SwitchQuality(arg)
		return nil
	},

	"play":       func(a *App, _ string) error { a.player.TogglePlayback(); return nil },
	"mute":       func(a *App, _ string) error { a.player.ToggleMute(); return nil },
	"fullscreen": func(a *App, _ string) error { a.player.RequestFullscreen(); return nil },
	"toggle-360": func(a *App, _ string) error { return a.player.ToggleMode() },

	"fov": func(a *App, arg string) error {
		v, err := parseFloat(arg)
		if err != nil {
			return err
		}
		a.player.SetFOV(v)
		return nil
	},
	"fov-adjust": func(a *App, arg string) error {
		v, err := parseFloat(arg)
		if err != nil {
			return err
		}
		a.player.AdjustFOV(v)
		return nil
	},
	"fov-preset": func(a *App, arg string) error { return a.player.SetFOVPreset(arg) },
	"pan": func(a *App, arg string) error {
		lonArg, latArg, ok := strings.Cut(arg, ",")
		if !ok {
			return fmt.Errorf("pan wants \"lon,lat\", got %q", arg)
		}
		dLon, err := parseFloat(lonArg)
		if err != nil {
			return err
		}
		dLat, err := parseFloat(latArg)
		if err != nil {
			return err
		}
		a.player.Pan(dLon, dLat)
		return nil
	},
	"reset-view": func(a *App, _ string) error { a.player.ResetView(); return nil },

	"toggle-preview": func(a *App, _ string) error { a.player.TogglePreview(); return nil },
	"preview-preset": func(a *App, arg string) error {
		size, err := player.ParseSize(arg)
		if err != nil {
			return err
		}
		a.player.ApplyPreviewPreset(size)
		return nil
	},
	"preview-opacity": func(a *App, arg string) error {
		v, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return fmt.Errorf("invalid opacity %q", arg)
		}
		a.player.SetPreviewOpacity(v)
		return nil
	},
	"preview-border": func(a *App, arg string) error {
		on, err := strconv.ParseBool(arg)
		if err != nil {
			return fmt.Errorf("invalid border toggle %q", arg)
		}
		a.player.SetPreviewBorder(on)
		return nil
	},
	"preview-border-color": func(a *App, arg string) error {
		a.player.SetPreviewBorderColor(arg)
		return nil
	},

	"favorite-add": func(a *App, _ string) error {
		a.favorites.Add(a.current)
		return nil
	},
	"favorite-remove": func(a *App, arg string) error {
		i, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid favorite index %q", arg)
		}
		a.favorites.Remove(i)
		return nil
	},
	"favorite-select": func(a *App, arg string) error {
		i, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid favorite index %q", arg)
		}
		url, ok := a.favorites.Select(i)
		if !ok {
			return nil
		}
		a.input.SetValue(url)
		a.Load(url)
		return nil
	},
	"favorites-clear": func(a *App, _ string) error {
		a.favorites.ClearAll()
		return nil
	},
}

// Do runs the named action. Unknown actions are an error.
func (a *App) Do(name, arg string) error {
	act, ok := actions[name]
	if !ok {
		return fmt.Errorf("unknown action %q", name)
	}
	if err := act(a, arg); err != nil {
		slog.Warn("action failed", "action", name, "arg", arg, "error", err)
		return err
	}
	return nil
}

// Actions lists the names Do accepts.
func Actions() []string {
	names := lo.Keys(actions)
	slices.Sort(names)
	return names
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
