package pipeline

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// audioMIMEPrefixes lists the sniffed type families accepted as conversion
// input. video/* is included because container formats like mp4 or webm
// frequently hold audio-only streams and sniffers report the container type.
var audioMIMEPrefixes = []string{"audio/", "video/"}

// SplitAudioInputs sniffs each file's content type and separates convertible
// inputs from rejects. Rejected files become ready-made failure results with
// the unsupported-input kind so callers can merge them into a batch report
// without the engine ever seeing those bytes.
func SplitAudioInputs(files []File) ([]File, []Result) {
	accepted := make([]File, 0, len(files))
	var rejected []Result

	for _, file := range files {
		kind := mimetype.Detect(file.Bytes)
		if isAudioLike(kind.String()) {
			accepted = append(accepted, file)
			continue
		}
		rejected = append(rejected, Result{
			SourceName: file.Name,
			Kind:       FailureUnsupportedInput,
			Message:    fmt.Sprintf("input does not look like audio (detected %s)", kind.String()),
		})
	}

	return accepted, rejected
}

func isAudioLike(mime string) bool {
	for _, prefix := range audioMIMEPrefixes {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}
	return false
}
