package studio

import "errors"

type State int

const (
	StateIdle State = iota
	StatePhotoUploaded
	StateCaptionReady
	StateGenerating
	StateResultReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePhotoUploaded:
		return "photo_uploaded"
	case StateCaptionReady:
		return "caption_ready"
	case StateGenerating:
		return "generating"
	case StateResultReady:
		return "result_ready"
	default:
		return "unknown"
	}
}

var (
	ErrNoFiles         = errors.New("no file selected")
	ErrTooManyFiles    = errors.New("only one file can be uploaded")
	ErrUnsupportedType = errors.New("only jpeg and png images are supported")
	ErrNoPhoto         = errors.New("no photo uploaded")
	ErrBusy            = errors.New("another request is in flight")
	ErrNotLoaded       = errors.New("generated image is not loaded yet")
)

// View is a snapshot of what the page shows.
type View struct {
	OriginalPhoto     string
	Description       string
	RestoredImage     string
	PhotoName         string
	SideBySide        bool
	RestoredLoaded    bool
	State             State
	IsMutating        bool
	IsCaptionMutating bool
}

// Layout is the size of the compare slider.
type Layout struct {
	Width  int
	Height int
}

var fallbackLayout = Layout{Width: 800, Height: 600}
