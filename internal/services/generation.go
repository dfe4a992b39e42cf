package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"roomgpt-backend/internal/imagecodec"
	"roomgpt-backend/internal/logger"
	"roomgpt-backend/internal/models"
	"roomgpt-backend/internal/sdwebui"
)

type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*imagecodec.Image, error)
}

type Img2ImgBackend interface {
	Img2Img(ctx context.Context, req sdwebui.Img2ImgRequest) (*sdwebui.Img2ImgResponse, error)
}

type RoomStore interface {
	CreateRoom(ctx context.Context, email string, room *models.Room) error
}

type Ledger interface {
	Charge(ctx context.Context, email string) error
	Refund(ctx context.Context, email string) error
}

type GenerateInput struct {
	ImageURL string
	Theme    string
	Room     string
	Prompt   string
}

type GenerateResult struct {
	Original  string
	Generated string
	ID        string
	Room      *models.Room
}

type GenerationService struct {
	ledger  Ledger
	fetcher ImageFetcher
	backend Img2ImgBackend
	rooms   RoomStore
	newID   func() uuid.UUID
}

func NewGenerationService(ledger Ledger, fetcher ImageFetcher, backend Img2ImgBackend, rooms RoomStore) *GenerationService {
	return &GenerationService{
		ledger:  ledger,
		fetcher: fetcher,
		backend: backend,
		rooms:   rooms,
		newID:   uuid.New,
	}
}

// Generate charges one credit, redesigns the room at in.ImageURL and stores the result.
// Any failure after the charge refunds the credit before returning.
func (s *GenerationService) Generate(ctx context.Context, email string, in GenerateInput) (*GenerateResult, error) {
	const op = "generate"

	if email == "" {
		return nil, newError(KindUnauthorized, op, ErrUnauthorized)
	}
	if !HasPrompt(in) {
		return nil, newError(KindInvalidInput, op, ErrEmptyPrompt)
	}

	if err := s.ledger.Charge(ctx, email); err != nil {
		switch {
		case errors.Is(err, models.ErrInsufficientCredits):
			return nil, newError(KindInsufficientCredits, op, err)
		case errors.Is(err, models.ErrUserNotFound):
			return nil, newError(KindUnauthorized, op, err)
		default:
			return nil, newError(KindPersistence, op, err)
		}
	}

	result, err := s.generate(ctx, email, in)
	if err != nil {
		s.refund(ctx, email, err)
		return nil, err
	}
	return result, nil
}

func (s *GenerationService) generate(ctx context.Context, email string, in GenerateInput) (*GenerateResult, error) {
	const op = "generate"
	prompt := ResolvePrompt(in)

	img, err := s.fetcher.Fetch(ctx, in.ImageURL)
	if err != nil {
		return nil, newError(KindUpstreamFetch, op, err)
	}

	size, err := imagecodec.Probe(img.Bytes)
	if err != nil {
		return nil, newError(KindUpstreamFetch, op, err)
	}

	resp, err := s.backend.Img2Img(ctx, sdwebui.NewImg2ImgRequest(img.DataURI, prompt, size.Width, size.Height))
	if err != nil {
		return nil, newError(KindBackend, op, err)
	}

	room := &models.Room{
		ID:          s.newID(),
		InputImage:  in.ImageURL,
		OutputImage: imagecodec.JPEGDataURI(resp.Images[0]),
		Prompt:      prompt,
	}
	if err := s.rooms.CreateRoom(ctx, email, room); err != nil {
		return nil, newError(KindPersistence, op, err)
	}

	logger.Log.WithFields(logrus.Fields{
		"email":   email,
		"room_id": room.ID.String(),
		"prompt":  prompt,
		"width":   size.Width,
		"height":  size.Height,
	}).Info("Room generated")

	return &GenerateResult{
		Original:  room.InputImage,
		Generated: room.OutputImage,
		ID:        room.ID.String(),
		Room:      room,
	}, nil
}

// refund runs even when the request context is already done.
func (s *GenerationService) refund(ctx context.Context, email string, cause error) {
	fields := logrus.Fields{
		"email": email,
		"kind":  KindOf(cause).String(),
	}
	if err := s.ledger.Refund(context.WithoutCancel(ctx), email); err != nil {
		logger.Log.WithFields(fields).WithError(err).Error("Failed to refund credit")
		return
	}
	logger.Log.WithFields(fields).Info("Refunded credit after failed generation")
}
