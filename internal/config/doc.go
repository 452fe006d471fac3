// Package config loads, normalizes, and validates sieve configuration.
//
// Configuration comes from a TOML file (~/.config/sieve/config.toml by
// default, or a project-local sieve.toml), with environment variables
// filling in credentials. A .env file in the working directory is honored
// so the LLM API key never has to live in the config file itself.
package config
