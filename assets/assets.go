// Package assets embeds the WGSL shader pack.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed shaders
var files embed.FS

// Shaders returns the shader directory as the root of a file system. Include files live under include/.
func Shaders() fs.FS {
	sub, err := fs.Sub(files, "shaders")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}
