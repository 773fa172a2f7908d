// Package config defines the configuration for a peerchat node.
//
// Regardless of how peerchat is started, directly from Go code or as a
// standalone process from the command line, it uses the Config object defined
// in this package to store and forward configuration options. When started
// from the command line, options can also be read from a peerchat.toml (or
// .json, .yaml) file in the data directory; command line flags take
// precedence.
package config
