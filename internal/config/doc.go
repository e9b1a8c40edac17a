// Package config loads sqlrow settings from YAML.
//
// A config file looks like:
//
//	database: app.db
//	key_style: objects_but_warn
//	case_sensitive: false
//	log_level: debug
//	processors:
//	  MONEY: decimal
//	  TEXT: nfc
//
// Files are decoded strictly and then checked against an embedded CUE
// schema, so a typo in a key style or processor name fails at load time.
package config
