package services

import (
	"context"
	"encoding/json"
)

type ClipBackend interface {
	Clip(ctx context.Context, image string) (json.RawMessage, error)
}

type CaptionService struct {
	fetcher ImageFetcher
	backend ClipBackend
}

func NewCaptionService(fetcher ImageFetcher, backend ClipBackend) *CaptionService {
	return &CaptionService{
		fetcher: fetcher,
		backend: backend,
	}
}

// Caption returns the captioning backend's JSON for the image at imageURL, unmodified.
func (s *CaptionService) Caption(ctx context.Context, email, imageURL string) (json.RawMessage, error) {
	const op = "caption"

	if email == "" {
		return nil, newError(KindUnauthorized, op, ErrUnauthorized)
	}

	img, err := s.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, newError(KindUpstreamFetch, op, err)
	}

	raw, err := s.backend.Clip(ctx, img.DataURI)
	if err != nil {
		return nil, newError(KindBackend, op, err)
	}
	return raw, nil
}
