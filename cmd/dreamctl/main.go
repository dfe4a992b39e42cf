package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"roomgpt-backend/internal/config"
	"roomgpt-backend/internal/imagecodec"
	"roomgpt-backend/internal/localstore"
	"roomgpt-backend/internal/logger"
	"roomgpt-backend/internal/studio"
	"roomgpt-backend/internal/supabase"
)

func main() {
	app := &cli.App{
		Name:  "dreamctl",
		Usage: "upload a room photo and redesign it through the API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", EnvVars: []string{"ROOMGPT_API_URL"}},
			&cli.StringFlag{Name: "token", Usage: "Supabase access token", EnvVars: []string{"ROOMGPT_TOKEN"}},
			&cli.StringFlag{Name: "supabase-url", EnvVars: []string{"SUPABASE_URL"}},
			&cli.StringFlag{Name: "supabase-key", EnvVars: []string{"SUPABASE_PUBLISHABLE_KEY"}},
			&cli.StringFlag{Name: "bucket", Value: "uploads", EnvVars: []string{"SUPABASE_STORAGE_BUCKET"}},
			&cli.StringFlag{Name: "db", Value: "dreamctl.db", Usage: "local history database"},
			&cli.DurationFlag{Name: "timeout", Value: 3 * time.Minute},
			&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			logger.Configure(c.String("log-level"), false)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "caption",
				Usage:     "upload a photo and print a generated description",
				ArgsUsage: "<photo>",
				Action:    captionAction,
			},
			{
				Name:      "generate",
				Usage:     "upload a photo, redesign it and save the result next to it",
				ArgsUsage: "<photo>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "theme", Value: "Modern"},
					&cli.StringFlag{Name: "room", Value: "Living Room"},
					&cli.StringFlag{Name: "prompt", Usage: "used when theme and room are both empty"},
					&cli.BoolFlag{Name: "caption", Usage: "describe the photo first"},
					&cli.StringFlag{Name: "out", Usage: "output directory (defaults to the photo's directory)"},
				},
				Action: generateAction,
			},
			{
				Name:   "history",
				Usage:  "list generated room ids",
				Action: historyAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.WithError(err).Fatal("dreamctl failed")
	}
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "theme", Value: "Modern", Usage: "design theme; not sent with --caption or --prompt unless given explicitly"},
		&cli.StringFlag{Name: "room", Value: "Living Room", Usage: "room type; not sent with --caption or --prompt unless given explicitly"},
		&cli.StringFlag{Name: "prompt", Usage: "free-form description used instead of theme and room"},
		&cli.BoolFlag{Name: "caption", Usage: "describe the photo first and generate from that description"},
		&cli.StringFlag{Name: "out", Usage: "output directory (defaults to the photo's directory)"},
	}
}

// roomLabels returns the theme and room to send. The server only honours a
// description when both labels are empty, so the defaults are dropped when
// the user asked for a caption or prompt and set neither label.
func roomLabels(c *cli.Context) (string, string) {
	described := c.Bool("caption") || c.String("prompt") != ""
	if described && !c.IsSet("theme") && !c.IsSet("room") {
		return "", ""
	}
	return c.String("theme"), c.String("room")
}

type session struct {
	controller *studio.Controller
	store      *localstore.Store
}

func newSession(c *cli.Context, outDir string) (*session, error) {
	if c.String("token") == "" {
		return nil, fmt.Errorf("an access token is required (--token or ROOMGPT_TOKEN)")
	}
	if c.String("supabase-url") == "" || c.String("supabase-key") == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY are required for uploads")
	}

	store, err := localstore.New(c.String("db"))
	if err != nil {
		return nil, err
	}

	project, err := supabase.NewClient(&config.Config{
		SupabaseURL:            c.String("supabase-url"),
		SupabasePublishableKey: c.String("supabase-key"),
		SupabaseStorageBucket:  c.String("bucket"),
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
	}

	fetcher := imagecodec.NewFetcher(c.Duration("timeout"))
	ctrl := studio.NewController(
		studio.NewAPIClient(c.String("api-url"), c.String("token"), c.Duration("timeout")),
		project.Storage(),
		store,
		studio.LogNotifier{},
		studio.DirSaver{Dir: outDir, Fetcher: fetcher},
		studio.FetchProber{Fetcher: fetcher},
	)
	return &session{controller: ctrl, store: store}, nil
}

func readPhoto(path string) (studio.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return studio.File{}, err
	}
	return studio.File{
		Name:        filepath.Base(path),
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, nil
}

func photoArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit("exactly one photo is required", 2)
	}
	return c.Args().First(), nil
}

func captionAction(c *cli.Context) error {
	path, err := photoArg(c)
	if err != nil {
		return err
	}
	s, err := newSession(c, filepath.Dir(path))
	if err != nil {
		return err
	}
	defer s.store.Close()

	file, err := readPhoto(path)
	if err != nil {
		return err
	}
	if err := s.controller.Upload(c.Context, []studio.File{file}); err != nil {
		return err
	}
	if err := s.controller.GeneratePrompt(c.Context); err != nil {
		return err
	}

	fmt.Println(s.controller.View().Description)
	return nil
}

func generateAction(c *cli.Context) error {
	path, err := photoArg(c)
	if err != nil {
		return err
	}
	outDir := c.String("out")
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	s, err := newSession(c, outDir)
	if err != nil {
		return err
	}
	defer s.store.Close()

	file, err := readPhoto(path)
	if err != nil {
		return err
	}
	ctrl := s.controller
	if err := ctrl.Upload(c.Context, []studio.File{file}); err != nil {
		return err
	}

	if c.Bool("caption") {
		if err := ctrl.GeneratePrompt(c.Context); err != nil {
			return err
		}
	}
	if prompt := c.String("prompt"); prompt != "" {
		ctrl.SetDescription(prompt)
	}

	theme, room := roomLabels(c)
	if err := ctrl.GenerateRoom(c.Context, theme, room); err != nil {
		return err
	}
	ctrl.MarkRestoredLoaded()

	layout := ctrl.CompareLayout(c.Context)
	name, err := ctrl.Download(c.Context)
	if err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"file":   filepath.Join(outDir, name),
		"width":  layout.Width,
		"height": layout.Height,
	}).Info("Saved generated room")
	return nil
}

func historyAction(c *cli.Context) error {
	store, err := localstore.New(c.String("db"))
	if err != nil {
		return err
	}
	defer store.Close()

	ids, err := studio.History(store)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
