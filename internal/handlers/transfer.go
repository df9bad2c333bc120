package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/booktab/internal/catalog"
	"github.com/lehigh-university-libraries/booktab/internal/logging"
	"github.com/lehigh-university-libraries/booktab/internal/tabular"
)

// HandleImport replaces the catalog with the uploaded spreadsheet. The file
// goes in the "file" form field; "encoding" overrides the CSV encoding.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Import.MaxFileSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	format, err := tabular.FormatOf(header.Filename)
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	encoding := r.FormValue("encoding")
	if encoding == "" {
		encoding = h.cfg.Import.Encoding
	}

	sheet, err := tabular.Read(file, header.Size, format, tabular.Options{Encoding: encoding})
	if err != nil {
		h.writeError(w, r, "Failed to parse spreadsheet: "+err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("Importing spreadsheet", "file", header.Filename, "rows", len(sheet.Rows))

	result, err := h.catalog.Import(r.Context(), sheet.Headers, sheet.Rows)
	var mappingErr *catalog.MappingError
	if errors.As(err, &mappingErr) {
		logger.Warn("Rejected spreadsheet", "file", header.Filename, "headers", mappingErr.Headers)
		h.writeJSON(w, r, http.StatusUnprocessableEntity, map[string]any{
			"error":   mappingErr.Error(),
			"headers": mappingErr.Headers,
		})
		return
	}
	if errors.Is(err, catalog.ErrNoHeaders) {
		h.writeError(w, r, "Failed to import catalog: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, r, "Failed to import catalog: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}

// HandleExport downloads the catalog. format is csv (default), tsv or
// parquet.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := tabular.Format(strings.ToLower(r.URL.Query().Get("format")))
	if format == "" {
		format = tabular.FormatCSV
	}

	var contentType string
	switch format {
	case tabular.FormatCSV:
		contentType = "text/csv; charset=utf-8"
	case tabular.FormatTSV:
		contentType = "text/tab-separated-values; charset=utf-8"
	case tabular.FormatParquet:
		contentType = "application/vnd.apache.parquet"
	default:
		h.writeError(w, r, fmt.Sprintf("Unsupported export format %q", format), http.StatusBadRequest)
		return
	}

	data := h.catalog.Export()
	sheet := &tabular.Sheet{Headers: data.Headers, Rows: data.Rows}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="books.%s"`, format))
	if err := tabular.Write(w, format, sheet); err != nil {
		logging.FromContext(r.Context()).Error("Failed to write export", "format", format, "err", err)
	}
}
