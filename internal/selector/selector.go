// Package selector yields the user's image choice from a file-choice prompt.
// It performs no validation beyond the prompt's type filter; callers
// re-validate the declared MIME type.
package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Accept is the type filter presented by the file-choice prompt.
const Accept = "image/*"

// DefaultField is the multipart form field carrying the chosen file.
const DefaultField = "file"

// ErrNoSelection reports that the user dismissed the prompt without choosing a file.
var ErrNoSelection = errors.New("no file selected")

// ErrTooLarge reports that the chosen file exceeds the configured size limit.
var ErrTooLarge = errors.New("file exceeds maximum upload size")

// File is a chosen file with its metadata.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// IsImage reports whether the declared content type carries an image designator.
func (f *File) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(f.ContentType), "image/")
}

// Selector presents a file-choice prompt and yields the result.
type Selector interface {
	Select(ctx context.Context) (*File, error)
}

// Func adapts a function to the Selector interface.
type Func func(ctx context.Context) (*File, error)

// Select calls f(ctx).
func (f Func) Select(ctx context.Context) (*File, error) {
	return f(ctx)
}

// Static returns a Selector that always yields file. A nil file means the
// prompt was canceled.
func Static(file *File) Selector {
	return Func(func(context.Context) (*File, error) {
		if file == nil {
			return nil, ErrNoSelection
		}
		return file, nil
	})
}

type formSelector struct {
	r       *http.Request
	field   string
	maxSize int64
}

// FromRequest returns a Selector that reads the completed prompt from a
// multipart form post. A missing part or an empty filename is a canceled prompt.
func FromRequest(r *http.Request, field string, maxSize int64) Selector {
	if field == "" {
		field = DefaultField
	}
	return &formSelector{r: r, field: field, maxSize: maxSize}
}

func (s *formSelector) Select(ctx context.Context) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.maxSize > 0 {
		s.r.Body = http.MaxBytesReader(nil, s.r.Body, s.maxSize)
	}

	mem := s.maxSize
	if mem <= 0 {
		mem = 32 << 20
	}

	if err := s.r.ParseMultipartForm(mem); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, ErrNoSelection
		}
		return nil, fmt.Errorf("parse form: %w", err)
	}

	part, header, err := s.r.FormFile(s.field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrNoSelection
		}
		return nil, fmt.Errorf("read form file: %w", err)
	}
	defer part.Close()

	if header.Filename == "" {
		return nil, ErrNoSelection
	}

	data, err := io.ReadAll(part)
	if err != nil {
		return nil, fmt.Errorf("read form file: %w", err)
	}

	return &File{
		Name:        header.Filename,
		ContentType: DetectContentType(header.Header.Get("Content-Type"), data),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// DetectContentType returns the declared type, falling back to content
// sniffing when the declaration is missing or generic.
func DetectContentType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(data).String()
}
