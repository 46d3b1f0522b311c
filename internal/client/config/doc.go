// Package config loads runtime configuration for the fridgekeeper client.
//
// Sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional YAML or JSON file given with -c / -config or the
//     FRIDGEKEEPER_CONFIG environment variable.
//  3. Environment variables FRIDGEKEEPER_<KEY>, e.g. FRIDGEKEEPER_API_URL.
//  4. Command-line flags.
//
// Example file:
//
//	api_url: https://myfridgebackend.onrender.com/api
//	http_timeout: 15s
//	store: sqlite
//	db_path: fridgekeeper.db
//	log_level: info
//	log_file: fridgekeeper.log
//	retry_attempts: 3
//	retry_delay: 300ms
//	online_check_interval: 30s
//	metrics_addr: 127.0.0.1:9100
package config
