// Package config loads maitre's TOML configuration.
//
// Load reads ~/.config/maitre/config.toml unless a path is given. A missing
// file is not an error: Default values are returned so maitre works against a
// local backend with no setup. Empty or whitespace values also fall back to
// the defaults.
//
// Example config.toml:
//
//	api_url = "127.0.0.1:5000"
//	poll_seconds = 30
//	request_timeout_seconds = 10
//	log_file = "~/.local/state/maitre/maitre.log"
//	log_level = "info"
//	discard_stale_reloads = false
//	sms_template = "Hi {name}, your table is ready ({number})."
//	service_name = "maitre"
//
// Paths beginning with ~ are expanded against the home directory. A
// non-positive poll or timeout, an unknown log level, or malformed TOML makes
// Load fail; flags given on the command line override file values.
package config
