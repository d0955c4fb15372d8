package server

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"sonicwave/internal/pipeline"
)

// convertRequest is the validated form surface of POST /api/convert.
type convertRequest struct {
	Format     string `validate:"required"`
	Channels   int    `validate:"omitempty,min=1,max=8"`
	SampleRate int    `validate:"omitempty,min=8000,max=192000"`
	Bitrate    string `validate:"omitempty,bitrate"`
	Metadata   bool
	Response   string `validate:"omitempty,oneof=json zip"`
}

func (r convertRequest) options() pipeline.Options {
	return pipeline.Options{
		Channels:     r.Channels,
		SampleRateHz: r.SampleRate,
		Bitrate:      r.Bitrate,
	}
}

var bitratePattern = regexp.MustCompile(`^\d+(\.\d+)?[kM]?$`)

func newOptionsValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("bitrate", func(fl validator.FieldLevel) bool {
		return bitratePattern.MatchString(fl.Field().String())
	})
	return v
}

func parseConvertRequest(r *http.Request, v *validator.Validate) (convertRequest, error) {
	req := convertRequest{
		Format:   strings.TrimSpace(r.FormValue("format")),
		Bitrate:  strings.TrimSpace(r.FormValue("bitrate")),
		Response: strings.TrimSpace(r.FormValue("response")),
	}

	var err error
	if req.Channels, err = formInt(r, "channels"); err != nil {
		return req, err
	}
	if req.SampleRate, err = formInt(r, "sample_rate"); err != nil {
		return req, err
	}
	if raw := strings.TrimSpace(r.FormValue("metadata")); raw != "" {
		if req.Metadata, err = strconv.ParseBool(raw); err != nil {
			return req, fmt.Errorf("metadata: %w", err)
		}
	}

	if err := v.Struct(req); err != nil {
		return req, fmt.Errorf("invalid conversion options: %w", err)
	}
	return req, nil
}

func formInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}
