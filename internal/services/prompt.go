package services

import (
	"fmt"
	"strings"
)

const gamingRoom = "Gaming Room"

// BuildPrompt turns the theme and room labels picked in the UI into a generation prompt.
func BuildPrompt(theme, room string) string {
	if room == gamingRoom {
		return "a video gaming room"
	}
	return fmt.Sprintf("a %s %s", strings.ToLower(theme), strings.ToLower(room))
}

// ResolvePrompt prefers the theme/room labels and falls back to a free-form prompt
// only when neither label was sent.
func ResolvePrompt(in GenerateInput) string {
	if in.Theme == "" && in.Room == "" && strings.TrimSpace(in.Prompt) != "" {
		return strings.TrimSpace(in.Prompt)
	}
	return BuildPrompt(in.Theme, in.Room)
}

// HasPrompt reports whether in carries anything to build a prompt from.
func HasPrompt(in GenerateInput) bool {
	return in.Theme != "" || in.Room != "" || strings.TrimSpace(in.Prompt) != ""
}
