package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/username/kabufolio/src/config"
	"github.com/username/kabufolio/src/logger"
	"github.com/username/kabufolio/src/parsers"
	"github.com/username/kabufolio/src/security/validation"
	"github.com/username/kabufolio/src/services"
	"github.com/username/kabufolio/src/storage"
	"github.com/username/kabufolio/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(service services.ImportService) *ImportHandler {
	return &ImportHandler{importService: service}
}

// HandleImport accepts a multipart upload with a "file" part, a "format"
// field naming one of the three export layouts, and an optional "source"
// tag for provenance.
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if format == "" {
		utils.SendJSONError(w, "Missing 'format' field (domestic-equity, foreign-equity or fund-unit)", http.StatusBadRequest)
		return
	}
	source := r.FormValue("source")
	if source == "" {
		source = "upload"
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		logger.L.Warn("File content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.L.Info("Processing import request", "filename", fileHeader.Filename, "format", format, "source", source)
	summary, err := h.importService.ImportFile(file, format, source)
	if err != nil {
		switch {
		case errors.Is(err, parsers.ErrUnknownFormat):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, parsers.ErrEncodingDetection):
			logger.L.Warn("Encoding recovery failed", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Could not decode file: %v", err), http.StatusBadRequest)
		case errors.Is(err, parsers.ErrParsingFailed):
			logger.L.Warn("Import failed during parsing", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error parsing export file: %v", err), http.StatusBadRequest)
		case errors.Is(err, storage.ErrWriteFailed):
			logger.L.Error("Ledger write failed, batch not applied", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "Failed to persist the batch; no transactions were applied.", http.StatusInternalServerError)
		default:
			logger.L.Error("Internal error processing import", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	if summary.Warnings == nil {
		summary.Warnings = []parsers.RowWarning{}
	}
	utils.SendJSON(w, summary, http.StatusOK)
}
