// Package ffmpegcli adapts a local ffmpeg binary to the engine boundary.
//
// Buffers live as plain files inside a dedicated workspace directory and
// commands run with that directory as their working directory, so buffer
// names double as relative paths. A file lock on the workspace enforces the
// single-owner discipline the pipeline assumes: a second process pointed at
// the same workspace fails at construction instead of corrupting staged
// buffers mid-batch.
package ffmpegcli
