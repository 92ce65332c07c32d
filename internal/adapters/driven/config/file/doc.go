// Package file provides the TOML-backed settings store for lexroute.
//
// Settings live in a single config.toml under the lexroute config
// directory (~/.lexroute by default). A missing file is not an error:
// every setting has a default, so a fresh install works without any
// configuration.
package file
