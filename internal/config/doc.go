// Package config merges built-in defaults, an optional YAML file, an optional
// dotenv file and YTFETCH_* environment variables into a Config. Command-line
// flags are applied on top by the caller.
package config
