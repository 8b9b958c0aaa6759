// Command synthmarkd serves the marker codecs over HTTP: multipart
// uploads in, marked files or decoded provenance records out.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	synthmark "github.com/logicossoftware/go-synthmark"
	"github.com/logicossoftware/go-synthmark/internal/config"
	"github.com/logicossoftware/go-synthmark/internal/httpapi"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	level, _ := zerolog.ParseLevel(conf.Logger.Level)
	log = log.Level(level)

	limits := synthmark.Limits{
		MaxFieldLen: conf.Marker.MaxFieldLen,
		MaxTextLen:  conf.Marker.MaxTextLen,
	}
	metrics := httpapi.NewMetrics(conf.Metrics.Enabled)
	handler := httpapi.NewMarkHandler(conf.Marker.Platform, conf.Server.MaxUploadBytes, limits, log, metrics)
	router := httpapi.NewRouter(handler, log, metrics, conf.Metrics.Enabled)

	log.Info().
		Str("addr", conf.Addr()).
		Str("platform", conf.Marker.Platform).
		Bool("metrics", conf.Metrics.Enabled).
		Msg("starting synthmarkd")

	if err := router.Run(conf.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
