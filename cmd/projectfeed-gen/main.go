// Command projectfeed-gen writes a deterministic demo catalog to a JSON file
// that projectfeed can browse with -catalog.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"projectfeed/internal/catalog"
	"projectfeed/internal/domain"
	"projectfeed/internal/logging"
)

func main() {
	var (
		out          string
		count        int
		seed         int64
		buildVersion string
		buildURL     string
	)
	flag.StringVar(&out, "o", "catalog.json", "Output file")
	flag.IntVar(&count, "n", 500, "Number of projects")
	flag.Int64Var(&seed, "seed", 1, "Random seed")
	flag.StringVar(&buildVersion, "build-version", "", "Advertise a newer build with this version")
	flag.StringVar(&buildURL, "build-url", "https://example.com/projectfeed/latest", "Download link for the advertised build")
	flag.Parse()

	logging.Setup(logging.Config{Level: logging.LevelInfo, Pretty: true, Output: os.Stderr})
	logger := logging.NewLogger("gen")

	if count < 0 {
		fmt.Fprintln(os.Stderr, "-n must not be negative")
		os.Exit(2)
	}

	var opts []catalog.Option
	if buildVersion != "" {
		opts = append(opts, catalog.WithBuild(&domain.BuildEnvelope{
			Version:     buildVersion,
			DownloadURL: buildURL,
		}))
	}

	c := catalog.Demo(count, seed, time.Now(), opts...)
	if err := c.Save(out); err != nil {
		logger.Error().Err(err).Msg("Failed to write catalog")
		os.Exit(1)
	}
	logger.Info().Str("path", out).Int("projects", c.Len()).Msg("Catalog written")
}
