package templates

import (
	"embed"
	"io/fs"
)

//go:embed mail
var templates embed.FS

func FS() fs.FS {
	return templates
}
