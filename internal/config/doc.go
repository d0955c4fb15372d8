// Package config loads and validates the sonicwave configuration file.
//
// Configuration is TOML, located at ~/.config/sonicwave/config.toml unless a
// path is supplied. Defaults cover every field so the binary runs without a
// file; PORT and STATIC_DIR environment variables override the server section
// for container deployments. Path fields are tilde-expanded during load.
package config
