// Package format is the static registry of output format profiles.
//
// A profile binds a user-facing format id to the container extension, codec
// selector, bitrate support flag, and MIME type the pipeline needs to build
// engine commands and label results. The registry is fixed at compile time
// and safe for concurrent reads; Resolve is the only lookup path, so adding
// a format means adding one profile here and nothing else.
package format
