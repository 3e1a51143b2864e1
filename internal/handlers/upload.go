package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"videotube/internal/storage"
	"videotube/internal/utils"

	"github.com/rs/zerolog/log"
)

// multipartMemory is how much of a multipart form is kept in memory before
// the standard library spills parts to disk.
const multipartMemory = 32 << 20

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseMultipart bounds the body by MaxUploadBytes and parses the form.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return utils.NewValidationError("Upload is too large")
		}
		return utils.NewValidationError("Invalid multipart form", err.Error())
	}
	return nil
}

// spoolFile copies the named form file to a temp file the media store can
// read by path. A missing part yields (nil, nil).
func spoolFile(r *http.Request, field string) (*storage.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.NewValidationError("Invalid " + field + " upload")
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "videotube-*"+strings.ToLower(filepath.Ext(header.Filename)))
	if err != nil {
		return nil, utils.NewStorageError("Failed to buffer upload", err)
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, utils.NewStorageError("Failed to buffer upload", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, utils.NewStorageError("Failed to buffer upload", err)
	}

	return &storage.Upload{
		Path:        tmp.Name(),
		Filename:    filepath.Base(header.Filename),
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

// cleanupUploads removes spooled files and the form's own temp files.
func cleanupUploads(r *http.Request, uploads ...*storage.Upload) {
	for _, u := range uploads {
		if u == nil {
			continue
		}
		if err := os.Remove(u.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", u.Path).Msg("failed to remove spooled upload")
		}
	}
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
