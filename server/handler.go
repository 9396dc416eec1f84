package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tsawler/tabmark"
	"github.com/tsawler/tabmark/config"
)

// ConvertRequest holds the per-request conversion settings.
type ConvertRequest struct {
	Pages    string
	Password string
	Tables   bool
	Strategy string
}

// Converter turns PDF bytes into a Document.
type Converter interface {
	Convert(ctx context.Context, data []byte, req ConvertRequest) (*tabmark.Document, error)
}

// PDFConverter converts with the tabmark Extractor using configured
// defaults for the settings a request cannot change.
type PDFConverter struct {
	cfg *config.Config
}

// NewPDFConverter creates a converter from application configuration.
func NewPDFConverter(cfg *config.Config) *PDFConverter {
	return &PDFConverter{cfg: cfg}
}

// Convert implements Converter.
func (p *PDFConverter) Convert(ctx context.Context, data []byte, req ConvertRequest) (*tabmark.Document, error) {
	ext := tabmark.FromBytes(data).
		Pages(req.Pages).
		Password(req.Password).
		TableStrategy(req.Strategy).
		TableConfig(p.cfg.TableConfig()).
		Workers(p.cfg.Workers).
		OverlapThreshold(p.cfg.Layout.OverlapThreshold)
	if !req.Tables {
		ext = ext.WithoutTables()
	}
	return ext.Document(ctx)
}

// Handler serves the conversion API.
type Handler struct {
	converter Converter
	defaults  ConvertRequest
	maxUpload int64
}

// NewHandler creates a Handler. Request fields that a client omits fall
// back to cfg.
func NewHandler(converter Converter, cfg *config.Config) *Handler {
	return &Handler{
		converter: converter,
		defaults: ConvertRequest{
			Tables:   cfg.Tables.Enabled,
			Strategy: cfg.Tables.Strategy,
		},
		maxUpload: cfg.Server.MaxUploadBytes(),
	}
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Convert handles POST /v1/convert
func (h *Handler) Convert(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "file exceeds maximum allowed size")
			return
		}
		respondError(c, http.StatusBadRequest, "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	req, err := h.parseRequest(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	doc, err := h.converter.Convert(c.Request.Context(), data, req)
	if err != nil {
		handleError(c, err)
		return
	}

	warnings := make([]string, 0, len(doc.Warnings)+1)
	if w, ok := tabmark.ExtensionWarning(header.Filename); ok {
		warnings = append(warnings, w.String())
	}
	for _, w := range doc.Warnings {
		warnings = append(warnings, w.String())
	}

	scanned := doc.ScannedPages
	if scanned == nil {
		scanned = []int{}
	}

	logger.Info("converted document",
		"request_id", requestID(c),
		"file", header.Filename,
		"bytes", len(data),
		"pages", len(doc.Pages),
		"scanned", len(scanned),
	)

	c.JSON(http.StatusOK, ConvertResponse{
		RequestID:    requestID(c),
		Pages:        len(doc.Pages),
		ScannedPages: scanned,
		Warnings:     warnings,
		Markdown:     doc.Markdown(),
	})
}

// parseRequest reads the optional form fields.
func (h *Handler) parseRequest(c *gin.Context) (ConvertRequest, error) {
	req := h.defaults
	req.Pages = c.PostForm("pages")
	req.Password = c.PostForm("password")
	if s := c.PostForm("strategy"); s != "" {
		req.Strategy = s
	}
	if s := c.PostForm("tables"); s != "" {
		enabled, err := strconv.ParseBool(s)
		if err != nil {
			return req, errors.New("tables must be a boolean")
		}
		req.Tables = enabled
	}
	return req, nil
}
