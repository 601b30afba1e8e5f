package classifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/JaimeStill/autolens/internal/selector"
	"github.com/JaimeStill/autolens/pkg/formatting"
)

const maxResponseBytes = 1 << 20

// Client classifies a selected image.
type Client interface {
	Classify(ctx context.Context, file *selector.File) (*Classification, error)
}

type client struct {
	http     *http.Client
	endpoint string
	field    string
	logger   *slog.Logger
}

// New creates a Client for the configured endpoint. A nil httpClient uses a
// client with the configured timeout.
func New(cfg *Config, httpClient *http.Client, logger *slog.Logger) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.TimeoutDuration()}
	}
	return &client{
		http:     httpClient,
		endpoint: cfg.Endpoint(),
		field:    cfg.Field,
		logger:   logger.With("system", "classifier"),
	}
}

// Classify issues exactly one POST carrying file. Failures are returned as *Error.
func (c *client) Classify(ctx context.Context, file *selector.File) (*Classification, error) {
	body, contentType, err := c.encode(file)
	if err != nil {
		return nil, Transport("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, Transport("build request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, Transport("request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, Transport("read response", err)
	}

	result, err := decode(resp.StatusCode, raw)
	if err != nil {
		c.logger.WarnContext(ctx, "classification failed",
			"filename", file.Name,
			"status", resp.StatusCode,
			"error", err,
		)
		return nil, err
	}

	c.logger.InfoContext(ctx, "classification complete",
		"filename", file.Name,
		"label", result.Label,
		"confidence", result.Confidence,
	)
	return result, nil
}

func (c *client) encode(file *selector.File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="%s"; filename="%s"`,
		escapeQuotes(c.field), escapeQuotes(file.Name),
	))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

// decode maps a raw response to a result. A non-empty error body wins over
// the status code because the service reports semantic failures with 4xx/5xx
// statuses.
func decode(status int, raw []byte) (*Classification, error) {
	parsed, parseErr := formatting.Parse[predictResponse](raw)

	if parseErr == nil && parsed.Error != nil && *parsed.Error != "" {
		return nil, Rejected(*parsed.Error)
	}
	if status < 200 || status > 299 {
		return nil, Transport(fmt.Sprintf("unexpected status %d", status), nil)
	}
	if parseErr != nil {
		return nil, Transport("malformed response body", parseErr)
	}
	if parsed.PredictedClass == nil || parsed.Confidence == nil {
		return nil, Transport("unexpected response shape", nil)
	}

	return &Classification{
		Label:      *parsed.PredictedClass,
		Confidence: *parsed.Confidence,
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
