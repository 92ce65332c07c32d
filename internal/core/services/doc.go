// Package services contains the core application services: the
// deterministic routing table, the ingestion pipeline, and the query
// service that combines routing with filtered similarity search.
package services
