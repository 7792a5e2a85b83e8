// Package config loads and validates application configuration from
// environment variables (prefix DPC) layered over an optional YAML file.
package config
