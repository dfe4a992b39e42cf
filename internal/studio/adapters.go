package studio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"roomgpt-backend/internal/imagecodec"
	"roomgpt-backend/internal/logger"
)

// LogNotifier reports toasts through the application logger.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { logger.Log.Info(msg) }
func (LogNotifier) Error(msg string)   { logger.Log.Error(msg) }

type fetcher interface {
	Fetch(ctx context.Context, url string) (*imagecodec.Image, error)
}

// loadImage accepts both data URIs and http(s) URLs.
func loadImage(ctx context.Context, f fetcher, src string) ([]byte, error) {
	if strings.HasPrefix(src, "data:") {
		_, data, err := imagecodec.DecodeDataURI(src)
		return data, err
	}
	img, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return img.Bytes, nil
}

// FetchProber reads an image's natural size by downloading it.
type FetchProber struct {
	Fetcher fetcher
}

func (p FetchProber) Probe(ctx context.Context, src string) (imagecodec.Size, error) {
	data, err := loadImage(ctx, p.Fetcher, src)
	if err != nil {
		return imagecodec.Size{}, err
	}
	return imagecodec.Probe(data)
}

// DirSaver writes downloads into Dir.
type DirSaver struct {
	Dir     string
	Fetcher fetcher
}

func (s DirSaver) Save(ctx context.Context, src, filename string) error {
	data, err := loadImage(ctx, s.Fetcher, src)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	target := filepath.Join(s.Dir, filepath.Base(filename))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}
