// Package assets embeds the sample prediction documents and the browser
// static files.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed data/*.json
var data embed.FS

//go:embed static
var static embed.FS

// Data holds fighters.json, upcoming-fights.json and accuracy-stats.json at
// its root.
var Data = mustSub(data, "data")

var Static = mustSub(static, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
