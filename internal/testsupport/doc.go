// Package testsupport provides shared fixtures for package tests: an
// in-memory fake of the codec engine with scriptable failures and call
// recording, plus a config builder seeded with per-test temp directories.
package testsupport
