// Package config loads process configuration.
//
// Secrets and tunables come from the environment (optionally seeded from a
// .env file). The ordered trigger bindings and optional startup debug
// calls live in a separate YAML file so they can be edited without
// touching the environment.
package config
