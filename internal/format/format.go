package format

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownFormat marks lookups for format ids that are not registered.
var ErrUnknownFormat = errors.New("unknown format")

// Profile describes one output format's encoding parameters.
type Profile struct {
	ID              string
	Extension       string
	Codec           string
	SupportsBitrate bool
	MIMEType        string
}

var registry = map[string]Profile{
	"mp3":  {ID: "mp3", Extension: "mp3", Codec: "libmp3lame", SupportsBitrate: true, MIMEType: "audio/mpeg"},
	"wav":  {ID: "wav", Extension: "wav", Codec: "pcm_s16le", SupportsBitrate: false, MIMEType: "audio/wav"},
	"flac": {ID: "flac", Extension: "flac", Codec: "flac", SupportsBitrate: false, MIMEType: "audio/flac"},
	"ogg":  {ID: "ogg", Extension: "ogg", Codec: "libvorbis", SupportsBitrate: true, MIMEType: "audio/ogg"},
	"aac":  {ID: "aac", Extension: "aac", Codec: "aac", SupportsBitrate: true, MIMEType: "audio/aac"},
	"m4a":  {ID: "m4a", Extension: "m4a", Codec: "aac", SupportsBitrate: true, MIMEType: "audio/mp4"},
	"wma":  {ID: "wma", Extension: "wma", Codec: "wmav2", SupportsBitrate: true, MIMEType: "audio/x-ms-wma"},
	"opus": {ID: "opus", Extension: "opus", Codec: "libopus", SupportsBitrate: true, MIMEType: "audio/opus"},
}

var orderedIDs = func() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}()

// Resolve returns the profile registered for the given format id.
func Resolve(formatID string) (Profile, error) {
	id := strings.ToLower(strings.TrimSpace(formatID))
	profile, ok := registry[id]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownFormat, formatID)
	}
	return profile, nil
}

// IDs returns the registered format ids in stable lexical order.
func IDs() []string {
	ids := make([]string, len(orderedIDs))
	copy(ids, orderedIDs)
	return ids
}

var titleCaser = cases.Title(language.English)

// DisplayName renders a format id for tables and UI listings.
func DisplayName(formatID string) string {
	profile, err := Resolve(formatID)
	if err != nil {
		return strings.TrimSpace(formatID)
	}
	switch profile.ID {
	case "mp3", "wav", "ogg", "aac", "m4a", "wma":
		return strings.ToUpper(profile.ID)
	default:
		return titleCaser.String(profile.ID)
	}
}
