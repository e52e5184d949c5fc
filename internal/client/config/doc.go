// Package config loads runtime configuration for the company admin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "15s" or integer nanoseconds. Absent keys keep their defaults:
//
//	{
//	  "server_url": "http://localhost:3001",
//	  "database_path": "session.db",
//	  "request_timeout": "15s",
//	  "log_level": "info"
//	}
package config
