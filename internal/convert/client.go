// Package convert talks to the LibreOffice conversion service to turn
// rendered office documents into PDFs.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sarabun-oss/sarabun/internal/platform/httpx"
)

// DefaultTimeout bounds one conversion round trip. LibreOffice startup on a
// cold container dominates; one minute covers the worst observed case.
const DefaultTimeout = 60 * time.Second

const maxErrorSnippet = 512

// Client posts office documents to the conversion service's LibreOffice
// route and returns the PDF bytes.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a conversion client. A zero timeout falls back to
// DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ConvertToPDF uploads one document and returns the converted PDF.
// Transport failures wrap httpx.ErrUnreachable; a non-200 from the service
// wraps httpx.ErrRemote with a bounded snippet of the response body.
func (c *Client) ConvertToPDF(ctx context.Context, filename string, document []byte) ([]byte, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("convert: %w: converter not configured", httpx.ErrUnreachable)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", filename)
	if err != nil {
		return nil, fmt.Errorf("convert: build form: %w", err)
	}
	if _, err := part.Write(document); err != nil {
		return nil, fmt.Errorf("convert: build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("convert: build form: %w", err)
	}

	url := c.baseURL + "/forms/libreoffice/convert"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("convert: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("convert: %w: %v", httpx.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
		return nil, fmt.Errorf("convert: %w: status %d: %s",
			httpx.ErrRemote, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("convert: %w: read response: %v", httpx.ErrUnreachable, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("convert: %w: empty response body", httpx.ErrRemote)
	}
	return pdf, nil
}
