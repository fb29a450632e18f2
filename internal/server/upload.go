package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/common"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
)

const (
	msgWrongDocument = "Please upload a DOCX file."
	msgWrongChat     = "Please upload a TXT/chat file."

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (s *HTTPServer) handleUploadDocument(c echo.Context) error {
	asXLSX, err := wantsXLSX(c)
	if err != nil {
		return err
	}
	name, data, err := s.readUpload(c, constants.DocumentExtensions, msgWrongDocument)
	if err != nil {
		return err
	}
	fs, err := s.processor.ProcessDocument(c.Request().Context(), name, data)
	if err != nil {
		return err
	}
	return s.respond(c, name, fs, asXLSX)
}

func (s *HTTPServer) handleUploadChat(c echo.Context) error {
	asXLSX, err := wantsXLSX(c)
	if err != nil {
		return err
	}
	name, data, err := s.readUpload(c, constants.ChatExtensions, msgWrongChat)
	if err != nil {
		return err
	}
	if err := common.ValidateChatText(data); err != nil {
		return err
	}
	fs, err := s.processor.ProcessChat(c.Request().Context(), name, string(data))
	if err != nil {
		return err
	}
	return s.respond(c, name, fs, asXLSX)
}

// readUpload returns the base name and content of the "file" form field.
func (s *HTTPServer) readUpload(c echo.Context, allowed map[string]struct{}, rejectMsg string) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return "", nil, err
		case errors.Is(err, http.ErrMissingFile):
			return "", nil, common.InvalidInputError("multipart field \"file\" is required")
		default:
			return "", nil, common.InvalidInputCause("invalid multipart body", err)
		}
	}

	name := filepath.Base(fh.Filename)
	if err := common.ValidateUpload(common.Upload{Name: name, Size: fh.Size}, allowed, s.cfg.MaxUploadBytes, rejectMsg); err != nil {
		return "", nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return "", nil, common.TooLargeError(fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxUploadBytes))
	}
	return name, data, nil
}

func wantsXLSX(c echo.Context) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(c.QueryParam("format"))) {
	case "", "json":
		return false, nil
	case "xlsx":
		return true, nil
	default:
		return false, common.InvalidInputError("format must be json or xlsx")
	}
}

func (s *HTTPServer) respond(c echo.Context, name string, fs *entity.FieldSet, asXLSX bool) error {
	if !asXLSX {
		return c.JSON(http.StatusOK, fs)
	}
	data, err := s.export.FieldSetXLSX(name, fs)
	if err != nil {
		return err
	}
	out := strings.TrimSuffix(name, filepath.Ext(name)) + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", out))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
