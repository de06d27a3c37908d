package migrate

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var embeddedMigrations embed.FS

//go:embed seeds/*.sql
var embeddedSeeds embed.FS

// Migrations returns the versioned schema files understood by goose.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// Seeds returns the demo data files applied by Manager.Seed.
func Seeds() fs.FS {
	sub, err := fs.Sub(embeddedSeeds, "seeds")
	if err != nil {
		panic(err)
	}
	return sub
}
