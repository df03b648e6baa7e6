// Package config loads runtime configuration for the saasadmin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "transport": "grpc",
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "grpc_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJ...",
//	  "admin_emails": ["admin@example.com"],
//	  "request_timeout": "15s",
//	  "duplicate_delete_policy": "wait",
//	  "log_level": "info"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
