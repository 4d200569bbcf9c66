// Package web embeds the player page served by spherecast serve.
//
// The player binary and the Go wasm runtime are build outputs; run
// go generate ./web before building cmd/spherecast.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:generate sh -c "GOOS=js GOARCH=wasm go build -o dist/assets/player.wasm ../cmd/player"
//go:generate sh -c "cp \"$(go env GOROOT)/lib/wasm/wasm_exec.js\" dist/assets/wasm_exec.js"

//go:embed all:dist
var DistFS embed.FS

// PlayerAssets are the generated files the page cannot start without.
var PlayerAssets = []string{"index.html", "assets/player.wasm", "assets/wasm_exec.js"}

// CheckAssets returns an error naming every player asset missing from fsys.
func CheckAssets(fsys fs.FS) error {
	var missing []string
	for _, name := range PlayerAssets {
		if _, err := fs.Stat(fsys, name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("player assets missing: %s", strings.Join(missing, ", "))
	}
	return nil
}
