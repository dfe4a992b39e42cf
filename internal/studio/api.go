package studio

import (
	"context"
	"fmt"
	"time"

	"roomgpt-backend/internal/httpclient"
	"roomgpt-backend/internal/models"
)

// GenerateParams is what the page posts to /api/generate.
type GenerateParams struct {
	ImageURL string
	Theme    string
	Room     string
	Prompt   string
}

// APIClient calls the caption and generate routes with the user's access token.
type APIClient struct {
	http *httpclient.Client
}

func NewAPIClient(baseURL, accessToken string, timeout time.Duration) *APIClient {
	return &APIClient{
		http: httpclient.NewClient(baseURL,
			httpclient.WithTimeout(timeout),
			httpclient.WithHeader("Authorization", "Bearer "+accessToken),
		),
	}
}

func (a *APIClient) Caption(ctx context.Context, imageURL string) (string, error) {
	var resp models.CaptionResponse
	if err := a.http.Post(ctx, "/api/caption", models.CaptionRequest{ImageURL: imageURL}, &resp); err != nil {
		return "", fmt.Errorf("caption: %w", err)
	}
	return resp.Caption, nil
}

func (a *APIClient) Generate(ctx context.Context, p GenerateParams) (*models.GenerateResponse, error) {
	req := models.GenerateRequest{
		ImageURL: p.ImageURL,
		Theme:    p.Theme,
		Room:     p.Room,
		Prompt:   p.Prompt,
	}

	var resp models.GenerateResponse
	if err := a.http.Post(ctx, "/api/generate", req, &resp); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return &resp, nil
}
