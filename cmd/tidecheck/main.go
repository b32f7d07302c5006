// Command tidecheck prints the tide report for one station, the same payload
// the server returns from /tides.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/samalone/trmnl-tides/pkg/cache"
	"github.com/samalone/trmnl-tides/pkg/noaa"
	"github.com/samalone/trmnl-tides/pkg/tides"
)

func main() {
	station := flag.String("station", tides.DefaultStation, "NOAA station id")
	tz := flag.String("tz", tides.DefaultTimeZone, "IANA time zone for displayed times")
	timeout := flag.Duration("timeout", 10*time.Second, "timeout for each NOAA request")
	debug := flag.Bool("debug", false, "log NOAA requests")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	svc := tides.NewService(
		noaa.NewClient(noaa.Options{Timeout: *timeout}),
		cache.NewZones(1, time.Hour),
	)

	report, err := svc.Report(context.Background(), *station, *tz)
	if err != nil {
		log.Error().Err(err).Stringer("kind", tides.KindOf(err)).Msg("Failed to fetch tides")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode report")
	}
}
