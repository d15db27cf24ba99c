// Package config loads heos-ctl settings from YAML or TOML files.
//
// The parser is chosen by file extension. Keys absent from the file keep
// their defaults, and unknown keys are rejected.
//
//	host: 192.168.1.20
//	timeout: 3s
//	player:
//	  pid: -1465850739
//	  name: Living Room
//	protocol_log: ~/.heos/capture.hlog
package config
