// Package config provides configuration structures and utilities for scribdt.
// It defines the runtime options shared by every workflow, the YAML config
// file format, environment overrides, and the cookie and filter file formats.
package config
