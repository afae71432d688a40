package appfs

import "embed"

// FS embeds runtime assets needed regardless of the working directory.
//go:embed migrations
var FS embed.FS
