// Package registry holds point-in-time snapshots of the mod registry.
//
// A Snapshot is immutable once built: NewSnapshot derives the hash indices
// before returning, so a snapshot is complete the moment anyone can see it.
// A Store publishes snapshots through an atomic pointer. Refreshing the
// registry means building a new Snapshot and publishing it; readers that
// loaded the old one keep a consistent view until they are done.
package registry
