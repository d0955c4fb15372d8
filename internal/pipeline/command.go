package pipeline

import (
	"strconv"
	"strings"

	"sonicwave/internal/format"
)

// buildCommand constructs the conversion argument vector in fixed order:
// input reference, optional channel count, optional sample rate, codec
// selector, optional bitrate, format-specific fixed arguments, output
// reference. A bitrate supplied for a profile that does not support one is
// dropped here rather than rejected, since lossless targets ignore rate
// control entirely.
func buildCommand(profile format.Profile, opts Options, inKey, outKey string) []string {
	args := make([]string, 0, 14)
	args = append(args, "-i", inKey)

	if opts.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(opts.Channels))
	}
	if opts.SampleRateHz > 0 {
		args = append(args, "-ar", strconv.Itoa(opts.SampleRateHz))
	}

	args = append(args, "-acodec", profile.Codec)

	if profile.SupportsBitrate {
		if bitrate := strings.TrimSpace(opts.Bitrate); bitrate != "" {
			args = append(args, "-b:a", bitrate)
		}
	}

	args = append(args, fixedArgs(profile)...)
	args = append(args, outKey)
	return args
}

// fixedArgs returns the format-specific arguments appended after the codec
// and bitrate section.
func fixedArgs(profile format.Profile) []string {
	switch profile.ID {
	case "flac":
		return []string{"-compression_level", "5"}
	case "aac", "m4a":
		// Keep the native AAC encoder usable on older engine builds.
		return []string{"-strict", "-2"}
	default:
		return nil
	}
}

// probeCommand builds the metadata-only invocation. With no output argument
// the engine exits non-zero after printing the input description, which is
// exactly the log text the extractor wants.
func probeCommand(inKey string) []string {
	return []string{"-i", inKey}
}
