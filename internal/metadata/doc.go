// Package metadata derives stream properties from engine log output.
//
// The codec engine has no structured metadata API; the only source of
// duration, sample rate, channel layout, and bitrate is the text it logs
// while inspecting an input. Extract is the single place raw log text is
// touched: it applies four independent pattern matches and degrades any
// miss to the Unknown marker instead of failing, so callers always get a
// usable Metadata value.
package metadata
