// Package config loads runtime configuration for the TalentBridge CLI.
//
// Sources, in increasing precedence: built-in defaults, an optional JSON file
// selected with -c or -config, then command-line flags.
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
