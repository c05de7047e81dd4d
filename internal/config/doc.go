// Package config loads, normalizes, and validates osubot configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// OSU_API_KEY and OSUBOT_CALCULATOR. The Config type centralizes every knob the
// pipeline and CLI need so the API client, calculator, and history store are
// configured in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
