package metadata

import (
	"fmt"
	"regexp"
)

// Unknown marks a field no pattern matched in the log slice.
const Unknown = "unknown"

// Metadata holds the stream properties recovered from one log slice.
type Metadata struct {
	Duration   string `json:"duration"`
	SampleRate string `json:"sample_rate"`
	Channels   string `json:"channels"`
	Bitrate    string `json:"bitrate"`
}

// Pre-compiled patterns for the four fields. Each is matched independently;
// a miss on one never affects the others.
var (
	reDuration   = regexp.MustCompile(`Duration:\s*(\d{1,2}:\d{2}:\d{2}(?:\.\d+)?)`)
	reSampleRate = regexp.MustCompile(`(\d{4,6})\s*Hz`)
	reChannels   = regexp.MustCompile(`\b(mono|stereo)\b|(\d+)\s*channels`)
	reBitrate    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:kb/s|kbps)`)
)

// Extract pulls duration, sample rate, channel layout, and bitrate out of a
// log slice. It never fails; absent fields resolve to Unknown.
func Extract(logSlice string) Metadata {
	meta := Metadata{
		Duration:   Unknown,
		SampleRate: Unknown,
		Channels:   Unknown,
		Bitrate:    Unknown,
	}

	if m := reDuration.FindStringSubmatch(logSlice); m != nil {
		meta.Duration = m[1]
	}
	if m := reSampleRate.FindStringSubmatch(logSlice); m != nil {
		meta.SampleRate = fmt.Sprintf("%s Hz", m[1])
	}
	if m := reChannels.FindStringSubmatch(logSlice); m != nil {
		if m[1] != "" {
			meta.Channels = m[1]
		} else {
			meta.Channels = fmt.Sprintf("%s channels", m[2])
		}
	}
	if m := reBitrate.FindStringSubmatch(logSlice); m != nil {
		meta.Bitrate = fmt.Sprintf("%s kbps", m[1])
	}

	return meta
}
