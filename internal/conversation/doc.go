// Package conversation owns the authoritative client-side session state.
//
// A Store serializes every backend exchange through one worker goroutine so
// that at most one request is outstanding and responses merge in the order
// they were issued. Readers never touch live state: they receive deep-copied
// Snapshots, either on demand or through a pubsub subscription.
package conversation
