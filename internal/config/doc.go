// Package config loads the splitter configuration from YAML with ${VAR}
// expansion and optional .env files, and validates it.
package config
