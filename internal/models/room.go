package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Credits   int
	CreatedAt time.Time
}

// Room is one persisted generation: the source photo, the generated image and the prompt used.
type Room struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	InputImage  string
	OutputImage string
	Prompt      string
	CreatedAt   time.Time
}
