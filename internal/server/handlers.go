package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sonicwave/internal/archive"
	"sonicwave/internal/format"
	"sonicwave/internal/metadata"
	"sonicwave/internal/pipeline"
)

type formatInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Extension       string `json:"extension"`
	MIMEType        string `json:"mime_type"`
	SupportsBitrate bool   `json:"supports_bitrate"`
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	infos := make([]formatInfo, 0, len(format.IDs()))
	for _, id := range format.IDs() {
		profile, err := format.Resolve(id)
		if err != nil {
			continue
		}
		infos = append(infos, formatInfo{
			ID:              profile.ID,
			Name:            format.DisplayName(profile.ID),
			Extension:       profile.Extension,
			MIMEType:        profile.MIMEType,
			SupportsBitrate: profile.SupportsBitrate,
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

type fileReport struct {
	Source   string             `json:"source"`
	Output   string             `json:"output,omitempty"`
	MIMEType string             `json:"mime_type,omitempty"`
	Size     int                `json:"size,omitempty"`
	Metadata *metadata.Metadata `json:"metadata,omitempty"`
	Kind     string             `json:"kind,omitempty"`
	Message  string             `json:"message,omitempty"`
}

type convertReport struct {
	Format    string       `json:"format"`
	Succeeded []fileReport `json:"succeeded"`
	Failed    []fileReport `json:"failed"`
	Duration  string       `json:"duration"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.Server.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("parse upload: %v", err))
		return
	}

	req, err := parseConvertRequest(r, s.validate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	files, err := readUploads(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files supplied")
		return
	}

	accepted, rejected := pipeline.SplitAudioInputs(files)

	started := time.Now()
	s.engineMu.Lock()
	result := s.batch.RunBatch(r.Context(), accepted, req.Format, req.options(), req.Metadata)
	s.engineMu.Unlock()
	result.Failures = append(result.Failures, rejected...)

	s.logger.Info("api batch finished",
		"format", req.Format,
		"succeeded", len(result.Successes),
		"failed", len(result.Failures),
	)

	if req.Response == "zip" {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="converted.zip"`)
		if err := archive.WriteZip(w, result.Successes); err != nil {
			s.logger.Error("zip response failed", "error", err)
		}
		return
	}

	report := convertReport{
		Format:   req.Format,
		Duration: time.Since(started).Round(time.Millisecond).String(),
	}
	for _, res := range result.Successes {
		entry := fileReport{
			Source:   res.SourceName,
			Output:   res.OutputName,
			MIMEType: res.MIMEType,
			Size:     len(res.OutputBytes),
		}
		if req.Metadata {
			meta := res.Meta
			entry.Metadata = &meta
		}
		report.Succeeded = append(report.Succeeded, entry)
	}
	for _, res := range result.Failures {
		report.Failed = append(report.Failed, fileReport{
			Source:  res.SourceName,
			Kind:    string(res.Kind),
			Message: res.Message,
		})
	}
	writeJSON(w, http.StatusOK, report)
}

func readUploads(r *http.Request) ([]pipeline.File, error) {
	if r.MultipartForm == nil {
		return nil, fmt.Errorf("multipart form required")
	}
	headers := r.MultipartForm.File["files"]
	files := make([]pipeline.File, 0, len(headers))
	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", header.Filename, err)
		}
		files = append(files, pipeline.File{Name: header.Filename, Bytes: data})
	}
	return files, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
