// Package httpapi exposes the marker codecs over a small HTTP surface:
// upload a file, get back the marked file or the decoded record.
package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	synthmark "github.com/logicossoftware/go-synthmark"
)

type MarkHandler struct {
	platform  string
	maxUpload int64
	limits    synthmark.Limits
	log       zerolog.Logger
	metrics   Metrics
}

func NewMarkHandler(platform string, maxUpload int64, limits synthmark.Limits, log zerolog.Logger, metrics Metrics) *MarkHandler {
	return &MarkHandler{
		platform:  platform,
		maxUpload: maxUpload,
		limits:    limits,
		log:       log,
		metrics:   metrics,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type detectResponse struct {
	Found  bool              `json:"found"`
	Format string            `json:"format,omitempty"`
	Record *synthmark.Record `json:"record,omitempty"`
}

// writeJSON renders v through goccy instead of gin's default encoder so
// the record's omitempty semantics match the CLI output exactly.
func writeJSON(c *gin.Context, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		c.Data(http.StatusInternalServerError, "application/json", []byte(`{"error":"encoding failed"}`))
		return
	}
	c.Data(status, "application/json", body)
}

func (h *MarkHandler) HealthCheck(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "synthmark",
	})
}

// EmbedMark accepts a multipart upload and returns the same file with a
// provenance marker embedded. Unsupported or malformed files come back
// unchanged; the endpoint mirrors the library's never-fail contract.
func (h *MarkHandler) EmbedMark(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to parse form: %v", err)})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: "file is required"})
		return
	}
	defer file.Close()

	buf, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		writeJSON(c, http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("failed to read file: %v", err)})
		return
	}
	if int64(len(buf)) > h.maxUpload {
		writeJSON(c, http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("file exceeds %d bytes", h.maxUpload)})
		return
	}

	format := c.PostForm("format")
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	}
	rec := synthmark.Record{
		Source:     c.PostForm("source"),
		UserIDHash: c.PostForm("user_id_hash"),
		Model:      c.PostForm("model"),
		Platform:   c.PostForm("platform"),
	}

	out := synthmark.Embed(buf, format, rec,
		synthmark.WithDefaultPlatform(h.platform),
		synthmark.WithEmbedLimits(h.limits),
		synthmark.WithEmbedLogger(h.log),
	)
	// Embed only ever grows the buffer; an unchanged length means the
	// input was passed through.
	marked := len(out) != len(buf)
	h.metrics.IncEmbeds(synthmark.ParseFormat(format).String(), marked)

	base := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	if base == "" {
		base = "file"
	}
	outputFilename := fmt.Sprintf("%s_marked%s", base, filepath.Ext(header.Filename))

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputFilename))
	c.Header("X-Synthmark-Marked", fmt.Sprintf("%t", marked))
	c.Data(http.StatusOK, contentTypeFor(out), out)
}

// DetectMark accepts a multipart upload and reports whether it carries a
// provenance marker, returning the decoded record when it does.
func (h *MarkHandler) DetectMark(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to parse form: %v", err)})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: "file is required"})
		return
	}
	defer file.Close()

	buf, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		writeJSON(c, http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("failed to read file: %v", err)})
		return
	}
	if int64(len(buf)) > h.maxUpload {
		writeJSON(c, http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("file exceeds %d bytes", h.maxUpload)})
		return
	}

	format := sniffFormat(buf)
	rec, found := synthmark.Detect(buf,
		synthmark.WithDetectLimits(h.limits),
		synthmark.WithDetectLogger(h.log),
	)
	h.metrics.IncDetects(format.String(), found)

	resp := detectResponse{Found: found}
	if found {
		resp.Format = format.String()
		resp.Record = rec
	}
	writeJSON(c, http.StatusOK, resp)
}

func sniffFormat(buf []byte) synthmark.Format {
	switch {
	case synthmark.IsPNG(buf):
		return synthmark.FormatPNG
	case synthmark.HasID3Tag(buf):
		return synthmark.FormatMP3
	default:
		return synthmark.FormatUnknown
	}
}

func contentTypeFor(buf []byte) string {
	switch sniffFormat(buf) {
	case synthmark.FormatPNG:
		return "image/png"
	case synthmark.FormatMP3:
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
