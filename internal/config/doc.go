// Package config provides environment-based configuration for innkeep.
//
// An optional .env file in the working directory is loaded first (godotenv),
// then variables are mapped onto Config with go-simpler/env struct tags.
// Paths beginning with "~" are expanded against the user's home directory.
//
// Variables:
//
//   - INNKEEP_API_BASE: base address of the reservation API (default http://localhost:9080)
//   - INNKEEP_SESSION_FILE: where the session token is persisted (default ~/.config/innkeep/session.toml)
//   - INNKEEP_REQUEST_TIMEOUT: per-call timeout (default 30s)
//   - INNKEEP_LOG_FILE: log destination for the TUI (default: logs discarded)
//   - LOG_LEVEL: debug, info, warn, error (default warn)
//   - LOG_FORMAT: text or json (default text)
package config
