//go:build js && wasm

// Command player is the browser side of spherecast, compiled to WebAssembly
// and loaded by web/dist/index.html.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spherecast/spherecast/internal/app"
	"github.com/spherecast/spherecast/internal/dom"
	"github.com/spherecast/spherecast/internal/favorites"
	"github.com/spherecast/spherecast/internal/kvsync"
	"github.com/spherecast/spherecast/internal/loader"
	"github.com/spherecast/spherecast/internal/player"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	page, err := dom.NewPage()
	if err != nil {
		slog.Error("player page incomplete", "error", err)
		return
	}

	ctx := context.Background()
	origin := dom.Origin()
	loop := player.NewLoop()

	p := player.New(player.Config{
		Media:      dom.NewVideo(page.Video()),
		Streaming:  dom.NewHLS(),
		NewScene:   dom.NewSceneFactory(page.Canvas(), page.Video()),
		Fullscreen: page,
		Loop:       loop,
	})

	ld := loader.New(loader.Config{
		Resolver: loader.NewHTTPResolver(origin, nil),
		Quality:  page,
		Title:    page,
		Player:   p,
	})

	var local kvsync.ItemStore = favorites.MapStorage{}
	if ls, err := dom.NewLocalStorage(); err == nil {
		local = ls
	} else {
		slog.Warn("favorites will not survive a reload", "error", err)
	}
	mirror := kvsync.NewMirror(ctx, local, kvsync.NewClient(origin, nil))
	favs := favorites.New(mirror, page, page)

	a := app.New(ctx, app.Config{
		Loop:      loop,
		Player:    p,
		Loader:    ld,
		Favorites: favs,
		Input:     page,
	})

	loop.AfterDispatch(func() { page.RenderPlayer(p) })
	listeners := dom.Bind(page, loop, a)
	defer listeners.Release()

	loop.Submit(favs.Load)
	dom.PostResize(page, loop)

	go func() {
		reconcile, err := mirror.Pull(favorites.StorageKey)
		if err != nil {
			slog.Warn("favorites sync unavailable", "error", err)
			return
		}
		loop.Submit(func() {
			if reconcile() {
				favs.Load()
			}
		})
	}()

	slog.Info("player ready")
	if err := loop.Run(ctx); err != nil {
		slog.Error("player loop stopped", "error", err)
	}
}
