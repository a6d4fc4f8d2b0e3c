// Package state persists per-file conversion state for incremental runs.
//
// Each converted source is stored with a hash of its bytes, the snapshot of
// the configuration that produced it and the output it was written to. A
// later run skips a file when all three still match.
package state
