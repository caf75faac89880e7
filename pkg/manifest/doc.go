// Package manifest holds the mod registry entities and everything needed to
// ingest them: decoding manifest documents (JSON, YAML or TOML), fetching
// them from URLs or local paths, and aggregating several sources into one
// GUID to Mod mapping.
//
// Entities are plain values. Once decoded they are treated as read-only and
// are shared between registry snapshots, so callers must not mutate them.
package manifest
