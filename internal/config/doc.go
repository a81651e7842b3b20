// Package config loads engine settings from an optional config file and
// TP_-prefixed environment variables, with hard defaults for everything.
package config
