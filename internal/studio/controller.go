// Package studio drives the upload, caption and generate flow of the room
// redesign page against the HTTP API.
package studio

import (
	"context"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"roomgpt-backend/internal/imagecodec"
	"roomgpt-backend/internal/logger"
	"roomgpt-backend/internal/models"
)

const (
	msgPromptSuccess   = "Generate prompt successfully"
	msgPromptFailed    = "Generate prompt failed , please try again"
	msgGenerateSuccess = "Generate successfully"
	msgGenerateFailed  = "Generate failed , please try again"
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

type API interface {
	Caption(ctx context.Context, imageURL string) (string, error)
	Generate(ctx context.Context, p GenerateParams) (*models.GenerateResponse, error)
}

type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Saver interface {
	Save(ctx context.Context, src, filename string) error
}

type SizeProber interface {
	Probe(ctx context.Context, src string) (imagecodec.Size, error)
}

// File is a picked local file.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Controller struct {
	api      API
	uploader Uploader
	history  KVStore
	notify   Notifier
	saver    Saver
	prober   SizeProber

	mu        sync.Mutex
	view      View
	uploading bool
}

func NewController(api API, uploader Uploader, history KVStore, notify Notifier, saver Saver, prober SizeProber) *Controller {
	return &Controller{
		api:      api,
		uploader: uploader,
		history:  history,
		notify:   notify,
		saver:    saver,
		prober:   prober,
	}
}

// View returns a copy of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Upload accepts exactly one jpeg or png file and shows its thumbnail as the original photo.
// It returns ErrBusy while another call is in flight.
func (c *Controller) Upload(ctx context.Context, files []File) error {
	switch {
	case len(files) == 0:
		return ErrNoFiles
	case len(files) > 1:
		return ErrTooManyFiles
	}

	f := files[0]
	detected := mimetype.Detect(f.Data).String()
	if !allowedMimeTypes[detected] {
		return ErrUnsupportedType
	}
	if f.ContentType != "" && !allowedMimeTypes[f.ContentType] {
		return ErrUnsupportedType
	}

	c.mu.Lock()
	if c.busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.uploading = true
	c.mu.Unlock()

	url, err := c.uploader.Upload(ctx, f.Name, detected, f.Data)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploading = false
	if err != nil {
		return err
	}
	c.view.OriginalPhoto = ThumbnailURL(url)
	c.view.PhotoName = f.Name
	c.view.RestoredImage = ""
	c.view.RestoredLoaded = false
	c.view.State = StatePhotoUploaded
	return nil
}

func (c *Controller) busy() bool {
	return c.uploading || c.view.IsMutating || c.view.IsCaptionMutating
}

// GeneratePrompt asks the backend to describe the uploaded photo.
// A failure leaves the description as it was.
func (c *Controller) GeneratePrompt(ctx context.Context) error {
	c.mu.Lock()
	if c.view.OriginalPhoto == "" {
		c.mu.Unlock()
		return ErrNoPhoto
	}
	if c.busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.view.IsCaptionMutating = true
	photo := c.view.OriginalPhoto
	c.mu.Unlock()

	caption, err := c.api.Caption(ctx, photo)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.IsCaptionMutating = false
	if err != nil {
		logger.Log.WithError(err).Warn("Caption request failed")
		c.notify.Error(msgPromptFailed)
		return err
	}

	c.view.Description = caption
	if c.view.State == StatePhotoUploaded {
		c.view.State = StateCaptionReady
	}
	c.notify.Success(msgPromptSuccess)
	return nil
}

// GenerateRoom requests a redesign of the uploaded photo and records the new room id in history.
func (c *Controller) GenerateRoom(ctx context.Context, theme, room string) error {
	c.mu.Lock()
	if c.view.OriginalPhoto == "" {
		c.mu.Unlock()
		return ErrNoPhoto
	}
	if c.busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	prior := c.view.State
	c.view.IsMutating = true
	c.view.State = StateGenerating
	params := GenerateParams{
		ImageURL: c.view.OriginalPhoto,
		Theme:    theme,
		Room:     room,
		Prompt:   c.view.Description,
	}
	c.mu.Unlock()

	resp, err := c.api.Generate(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.IsMutating = false
	if err != nil {
		logger.Log.WithError(err).Warn("Generate request failed")
		c.view.State = prior
		c.notify.Error(msgGenerateFailed)
		return err
	}

	if err := AppendHistory(c.history, resp.ID); err != nil {
		logger.Log.WithFields(logrus.Fields{"room_id": resp.ID}).WithError(err).Warn("Failed to record room in history")
	}
	c.view.RestoredImage = resp.Generated
	c.view.RestoredLoaded = false
	c.view.State = StateResultReady
	c.notify.Success(msgGenerateSuccess)
	return nil
}

// SetDescription replaces the prompt text sent with the next generation.
func (c *Controller) SetDescription(desc string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Description = desc
}

func (c *Controller) SetSideBySide(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.SideBySide = on
}

func (c *Controller) ToggleSideBySide() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.SideBySide = !c.view.SideBySide
	return c.view.SideBySide
}

// CompareLayout sizes the compare slider to the original photo, or 800x600 when it cannot be read.
func (c *Controller) CompareLayout(ctx context.Context) Layout {
	photo := c.View().OriginalPhoto
	if photo == "" || c.prober == nil {
		return fallbackLayout
	}

	size, err := c.prober.Probe(ctx, photo)
	if err != nil || size.Width <= 0 || size.Height <= 0 {
		if err != nil {
			logger.Log.WithError(err).Debug("Falling back to default compare layout")
		}
		return fallbackLayout
	}
	return Layout{Width: size.Width, Height: size.Height}
}

// MarkRestoredLoaded records that the generated image finished rendering.
func (c *Controller) MarkRestoredLoaded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view.RestoredImage != "" {
		c.view.RestoredLoaded = true
	}
}

// Download saves the generated image as "<name>-new.<ext>". It is only available once the image has loaded.
func (c *Controller) Download(ctx context.Context) (string, error) {
	v := c.View()
	if !v.RestoredLoaded || v.RestoredImage == "" {
		return "", ErrNotLoaded
	}

	name := AppendNewToName(v.PhotoName)
	if err := c.saver.Save(ctx, v.RestoredImage, name); err != nil {
		return "", err
	}
	return name, nil
}

// Reset returns to the upload step. The description is kept.
// A pending call must finish first, otherwise ErrBusy is returned.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy() {
		return ErrBusy
	}
	c.view = View{Description: c.view.Description}
	return nil
}
