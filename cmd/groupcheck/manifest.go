package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// manifest is the groupcheck.toml file format:
//
//	[[group]]
//	file = "examples/player/components.go"
//	type = "PlayerComponents"  # optional, scans every struct when omitted
type manifest struct {
	Groups []manifestGroup `toml:"group"`
}

type manifestGroup struct {
	File string `toml:"file"`
	Type string `toml:"type"`
}

func loadManifest(path string) (manifest, error) {
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return manifest{}, fmt.Errorf("load manifest: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return manifest{}, fmt.Errorf("load manifest: unknown keys %v", undecoded)
	}
	for i, g := range m.Groups {
		if g.File == "" {
			return manifest{}, fmt.Errorf("load manifest: group %d has no file", i)
		}
	}
	return m, nil
}
