package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/tabmark"
	"github.com/tsawler/tabmark/config"
	"github.com/tsawler/tabmark/internal/pdftest"
	"github.com/tsawler/tabmark/pages"
	"github.com/tsawler/tabmark/reader"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockConverter struct {
	mock.Mock
}

func (m *mockConverter) Convert(ctx context.Context, data []byte, req ConvertRequest) (*tabmark.Document, error) {
	args := m.Called(ctx, data, req)
	doc, _ := args.Get(0).(*tabmark.Document)
	return doc, args.Error(1)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	return cfg
}

// multipartBody builds a form with an optional file part and fields.
func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func doConvert(t *testing.T, router http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/convert", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := NewRouter(NewHandler(new(mockConverter), testConfig(t)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	router := NewRouter(NewHandler(new(mockConverter), testConfig(t)))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestConvertEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	router := NewRouter(NewHandler(NewPDFConverter(cfg), cfg))

	data := pdftest.Build(pdftest.TextPage, pdftest.ScannedPage, pdftest.TablePage)
	body, ct := multipartBody(t, "report.pdf", data, nil)
	w := doConvert(t, router, body, ct)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, w.Header().Get(RequestIDHeader), resp.RequestID)
	assert.Equal(t, 3, resp.Pages)
	assert.Equal(t, []int{2}, resp.ScannedPages)
	assert.Empty(t, resp.Warnings)
	assert.True(t, strings.HasPrefix(resp.Markdown, "# Page 1\n\n# Report Title"))
	assert.Contains(t, resp.Markdown, "| Name | Age |\n| --- | --- |\n| Ann | 42 |")
	assert.Contains(t, resp.Markdown, "ocrmypdf")
}

func TestConvertFormFields(t *testing.T) {
	cfg := testConfig(t)
	router := NewRouter(NewHandler(NewPDFConverter(cfg), cfg))

	data := pdftest.Build(pdftest.TextPage, pdftest.ScannedPage, pdftest.TablePage)
	body, ct := multipartBody(t, "scan.bin", data, map[string]string{
		"pages":  "3",
		"tables": "false",
	})
	w := doConvert(t, router, body, ct)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Pages)
	assert.Equal(t, []int{}, resp.ScannedPages)
	assert.NotContains(t, resp.Markdown, "| --- |")
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], ".pdf extension")
}

func TestConvertPassesRequestSettings(t *testing.T) {
	conv := new(mockConverter)
	router := NewRouter(NewHandler(conv, testConfig(t)))

	want := ConvertRequest{Pages: "1-2", Password: "pw", Tables: true, Strategy: "text"}
	conv.On("Convert", mock.Anything, []byte("%PDF-1.4"), want).
		Return(&tabmark.Document{Warnings: []tabmark.Warning{{Page: 2, Message: "table detection disabled"}}}, nil)

	body, ct := multipartBody(t, "a.pdf", []byte("%PDF-1.4"), map[string]string{
		"pages":    "1-2",
		"password": "pw",
		"strategy": "text",
	})
	w := doConvert(t, router, body, ct)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"page 2: table detection disabled"}, resp.Warnings)
	conv.AssertExpectations(t)
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"page selection", &pages.ParseError{Token: "a-b", Reason: "not a page number"}, http.StatusBadRequest},
		{"password required", reader.ErrPasswordRequired, http.StatusUnauthorized},
		{"wrong password", fmt.Errorf("open: %w", reader.ErrWrongPassword), http.StatusUnauthorized},
		{"unreadable", fmt.Errorf("%w: bad xref", reader.ErrOpen), http.StatusUnprocessableEntity},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := new(mockConverter)
			conv.On("Convert", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			router := NewRouter(NewHandler(conv, testConfig(t)))

			body, ct := multipartBody(t, "a.pdf", []byte("x"), nil)
			w := doConvert(t, router, body, ct)

			assert.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.RequestID)
			assert.NotEmpty(t, resp.Error)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, resp.Error, "boom")
			}
		})
	}
}

func TestConvertUnreadablePDF(t *testing.T) {
	cfg := testConfig(t)
	router := NewRouter(NewHandler(NewPDFConverter(cfg), cfg))

	body, ct := multipartBody(t, "a.pdf", []byte(strings.Repeat("garbage ", 100)), nil)
	w := doConvert(t, router, body, ct)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestConvertBadRequests(t *testing.T) {
	conv := new(mockConverter)
	router := NewRouter(NewHandler(conv, testConfig(t)))

	t.Run("missing file", func(t *testing.T) {
		body, ct := multipartBody(t, "", nil, map[string]string{"pages": "1"})
		w := doConvert(t, router, body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad tables flag", func(t *testing.T) {
		body, ct := multipartBody(t, "a.pdf", []byte("x"), map[string]string{"tables": "maybe"})
		w := doConvert(t, router, body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	conv.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything)
}

func TestConvertUploadLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.MaxUploadMB = 1
	conv := new(mockConverter)
	router := NewRouter(NewHandler(conv, cfg))

	body, ct := multipartBody(t, "big.pdf", bytes.Repeat([]byte("x"), 2<<20), nil)
	w := doConvert(t, router, body, ct)

	assert.Contains(t, []int{http.StatusRequestEntityTooLarge, http.StatusBadRequest}, w.Code)
	conv.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Addr = "127.0.0.1:0"
	s := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}
