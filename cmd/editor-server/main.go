package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	khanedit "github.com/khankhulgun/khanedit"
	"github.com/khankhulgun/khanedit/config"
	"github.com/khankhulgun/khanedit/editor"
	"github.com/khankhulgun/khanedit/models"
	"github.com/khankhulgun/khanedit/viewport"
)

type Options struct {
	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Listen     string `short:"l" long:"listen" env:"LISTEN_ADDRESS" description:"Address to listen on"`
	Debug      bool   `short:"d" long:"debug"  env:"DEBUG"          description:"Enable debug logging"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}

	ed := editor.New()
	defer ed.Close()

	for _, seed := range cfg.Layers {
		layer := models.VectorLayer{
			ID:        seed.ID,
			Name:      seed.Name,
			ColorHint: seed.ColorHint,
			Visible:   true,
		}
		if seed.Visible != nil {
			layer.Visible = *seed.Visible
		}
		if seed.Style != nil {
			layer.Style = *seed.Style
		}
		if seed.Data != nil {
			layer.Geometry = *seed.Data
		}
		if err := ed.Registry.Add(layer); err != nil {
			log.Fatal().Err(err).Str("layer", seed.ID).Msg("Failed to register layer")
		}
	}

	ed.Viewport.Update(viewport.State{
		Longitude: cfg.View.Longitude,
		Latitude:  cfg.View.Latitude,
		Zoom:      cfg.View.Zoom,
	})

	app := fiber.New()
	khanedit.Set(app, ed)

	log.Info().
		Str("addr", cfg.Listen).
		Int("layers_loaded", len(cfg.Layers)).
		Msg("Editor server started")

	if err := app.Listen(cfg.Listen); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
