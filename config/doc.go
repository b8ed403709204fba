// Package config loads profiledb settings.
//
// Settings come from three layers, later ones winning: a TOML file, a .env
// file in the working directory and PROFILEDB_* environment variables.
// Command line flags are applied on top by the commands themselves.
package config
