package models

type GenerateRequest struct {
	ImageURL string `json:"imageUrl" binding:"required" example:"https://upcdn.io/abc/thumbnail/uploads/room.jpg"`
	Theme    string `json:"theme" example:"Modern"`
	Room     string `json:"room" example:"Living Room"`
	// Prompt is used verbatim only when neither theme nor room is given.
	Prompt string `json:"prompt,omitempty"`
}

type CaptionRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
