package models

import "time"

type GenerateResponse struct {
	Original  string `json:"original"`
	Generated string `json:"generated"`
	ID        string `json:"id"`
}

// CaptionResponse is the shape the clip endpoint usually returns. The caption route
// passes the backend JSON through unchanged, so this type is only used by clients.
type CaptionResponse struct {
	Caption string `json:"caption"`
}

type CreditsResponse struct {
	Credits int `json:"credits"`
}

type RoomResponse struct {
	ID          string    `json:"id"`
	InputImage  string    `json:"input_image"`
	OutputImage string    `json:"output_image"`
	Prompt      string    `json:"prompt"`
	CreatedAt   time.Time `json:"created_at"`
}

type RoomListResponse struct {
	Rooms []RoomSummary `json:"rooms"`
}

type RoomSummary struct {
	ID         string    `json:"id"`
	InputImage string    `json:"input_image"`
	Prompt     string    `json:"prompt"`
	CreatedAt  time.Time `json:"created_at"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func NewRoomResponse(r *Room) RoomResponse {
	return RoomResponse{
		ID:          r.ID.String(),
		InputImage:  r.InputImage,
		OutputImage: r.OutputImage,
		Prompt:      r.Prompt,
		CreatedAt:   r.CreatedAt,
	}
}
