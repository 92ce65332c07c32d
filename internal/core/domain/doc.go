// Package domain contains the core types of the regulatory retrieval engine:
// parsed regulations and their articles, extracted entities (defined terms and
// cross-references), article chunks, routing results, and domain errors.
//
// Types in this package are plain data with derivation helpers. They carry no
// infrastructure dependencies and are safe to share across adapters.
package domain
