// Package config loads runtime configuration for the YouthLink client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via the -c or -config flags.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the platform API
//	-p string   host:port probed for the online check
//	-d string   sqlite DSN for local client state
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Interval fields use timex.Duration, so values can be either strings like
// "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080",
//	  "probe_addr": "127.0.0.1:8080",
//	  "database_dsn": "file:youthlink.db",
//	  "request_timeout": "10s",
//	  "toast_duration": "5s",
//	  "auto_read_delay": "3s"
//	}
//
// This package does not read environment variables; use the JSON file or
// flags to configure values.
package config
