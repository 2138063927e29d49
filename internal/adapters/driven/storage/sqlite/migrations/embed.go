// Package migrations embeds SQL migration files for the SQLite stores.
package migrations

import (
	"embed"
	"io/fs"
)

// FS contains the catalog migrations embedded at compile time.
//
//go:embed *.sql
var FS embed.FS

//go:embed semantic/*.sql
var semanticFS embed.FS

// SemanticFS returns the migrations of the local semantic index database.
func SemanticFS() fs.FS {
	sub, err := fs.Sub(semanticFS, "semantic")
	if err != nil {
		// The directory is embedded above; Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
