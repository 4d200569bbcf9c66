package web

import (
	"testing"
	"testing/fstest"
)

func TestCheckAssets(t *testing.T) {
	complete := fstest.MapFS{
		"index.html":          {Data: []byte("<html></html>")},
		"assets/player.wasm":  {Data: []byte{0x00, 0x61, 0x73, 0x6d}},
		"assets/wasm_exec.js": {Data: []byte("// runtime")},
	}
	if err := CheckAssets(complete); err != nil {
		t.Errorf("expected complete assets to pass, got %v", err)
	}

	partial := fstest.MapFS{
		"index.html": {Data: []byte("<html></html>")},
	}
	err := CheckAssets(partial)
	if err == nil {
		t.Fatal("expected error for missing wasm")
	}
	expected := "player assets missing: assets/player.wasm, assets/wasm_exec.js"
	if err.Error() != expected {
		t.Errorf("expected error %q, got %q", expected, err.Error())
	}
}
