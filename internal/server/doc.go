// Package server hosts the web UI and the conversion API.
//
// Static serving carries the cross-origin isolation headers
// (Cross-Origin-Opener-Policy / Cross-Origin-Embedder-Policy) the in-browser
// engine needs for SharedArrayBuffer, with cache policy split between HTML
// and hashed assets. The API accepts multipart uploads and runs them through
// the same batch pipeline as the CLI; requests serialize on the single shared
// engine, so concurrent conversions queue rather than interleave.
package server
