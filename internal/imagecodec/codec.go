package imagecodec

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

const DefaultMimeType = "image/png"

// Image is a fetched source image together with its inline encoding.
type Image struct {
	Bytes    []byte
	MimeType string
	DataURI  string
}

type Size struct {
	Width  int
	Height int
}

// FetchError reports an unreachable image or a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch image %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch image %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Fetcher struct {
	httpClient *http.Client
	timeout    time.Duration
	maxBytes   int64
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{},
		timeout:    timeout,
		maxBytes:   20 << 20,
	}
}

// WithMaxBytes caps the accepted image size. Larger bodies fail instead of being truncated.
func (f *Fetcher) WithMaxBytes(n int64) *Fetcher {
	f.maxBytes = n
	return f
}

// NewFetcherWithClient is used by tests to point the fetcher at an httptest server.
func NewFetcherWithClient(hc *http.Client, timeout time.Duration) *Fetcher {
	f := NewFetcher(timeout)
	f.httpClient = hc
	return f
}

// Fetch downloads the image at url and encodes it as a data URI.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("image exceeds %d bytes", f.maxBytes)}
	}

	mimeType := mediaType(resp.Header.Get("Content-Type"))
	return &Image{
		Bytes:    data,
		MimeType: mimeType,
		DataURI:  EncodeDataURI(mimeType, data),
	}, nil
}

func mediaType(contentType string) string {
	if contentType == "" {
		return DefaultMimeType
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || mt == "" {
		return DefaultMimeType
	}
	return mt
}

func EncodeDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// JPEGDataURI wraps a raw base64 payload returned by the backend.
func JPEGDataURI(payload string) string {
	return "data:image/jpg;base64," + payload
}

func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.New("not a data uri")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data uri has no payload")
	}
	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, errors.New("data uri is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return mimeType, data, nil
}

// Probe reads only the image header to find its pixel dimensions.
func Probe(data []byte) (Size, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Size{}, fmt.Errorf("failed to probe image size: %w", err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}
