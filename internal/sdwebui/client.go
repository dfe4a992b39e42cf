package sdwebui

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"roomgpt-backend/internal/httpclient"
)

const (
	DefaultSteps             = 70
	DefaultDenoisingStrength = 0.6
	DefaultNegativePrompt    = "longbody, lowres, bad anatomy, bad hands, missing fingers, extra digit, fewer digits, cropped, worst quality, low quality"
)

type Client struct {
	http    *httpclient.Client
	timeout time.Duration
}

type Img2ImgRequest struct {
	InitImages        []string `json:"init_images"`
	Steps             int      `json:"steps"`
	Prompt            string   `json:"prompt"`
	NegativePrompt    string   `json:"negative_prompt"`
	Width             int      `json:"width"`
	Height            int      `json:"height"`
	DenoisingStrength float64  `json:"denoising_strength"`
}

type Img2ImgResponse struct {
	Images []string `json:"images"`
}

type ClipRequest struct {
	Image string `json:"image"`
}

// NewImg2ImgRequest fills in the fixed generation parameters.
func NewImg2ImgRequest(initImage, prompt string, width, height int) Img2ImgRequest {
	return Img2ImgRequest{
		InitImages:        []string{initImage},
		Steps:             DefaultSteps,
		Prompt:            prompt,
		NegativePrompt:    DefaultNegativePrompt,
		Width:             width,
		Height:            height,
		DenoisingStrength: DefaultDenoisingStrength,
	}
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    httpclient.NewClient(baseURL, httpclient.WithTimeout(timeout)),
		timeout: timeout,
	}
}

func (c *Client) Img2Img(ctx context.Context, req Img2ImgRequest) (*Img2ImgResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result Img2ImgResponse
	if err := c.http.Post(ctx, "/api/img2img", req, &result); err != nil {
		return nil, fmt.Errorf("img2img request failed: %w", err)
	}
	if len(result.Images) == 0 || result.Images[0] == "" {
		return nil, fmt.Errorf("img2img returned no images")
	}
	return &result, nil
}

// Clip asks the backend to caption the image and returns its JSON response untouched.
func (c *Client) Clip(ctx context.Context, image string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result json.RawMessage
	if err := c.http.Post(ctx, "/api/clip", ClipRequest{Image: image}, &result); err != nil {
		return nil, fmt.Errorf("clip request failed: %w", err)
	}
	return result, nil
}
