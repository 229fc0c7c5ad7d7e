// Package config provides configuration loading, merging, and validation
// for both pantry-keeper binaries.
//
// Configuration is assembled from multiple sources in the following priority
// order (first non-zero value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// [GetStructuredConfig] builds the full server configuration tree;
// [GetClientConfig] derives the slimmer view the terminal client needs
// (adapter address and background worker intervals).
package config
