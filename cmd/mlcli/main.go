// Command mlcli is a smoke-test client for the inference service. It posts a
// prediction built from command-line flags, or checks liveness.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"apex-ml/internal/client"
	"apex-ml/internal/service"
)

func main() {
	addr := flag.String("addr", "http://localhost:8000", "inference server base URL")
	health := flag.Bool("health", false, "check server health and exit")
	featuresArg := flag.String("features", "", "comma-separated feature values")
	id := flag.String("id", "mlcli", "opportunity id to correlate the request")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	c := client.New(*addr, *timeout)

	if *health {
		h, err := c.Health()
		if err != nil {
			log.Fatal().Err(err).Msg("health check failed")
		}
		printJSON(h)
		return
	}

	feats, err := parseFeatures(*featuresArg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -features value")
	}

	resp, err := c.Predict(service.PredictionRequest{Features: feats, OpportunityID: *id})
	if err != nil {
		log.Fatal().Err(err).Msg("prediction failed")
	}
	printJSON(resp)
}

func parseFeatures(s string) ([]float64, error) {
	if s == "" {
		return nil, fmt.Errorf("no features given, use -features 1.2,30,450000,...")
	}
	parts := strings.Split(s, ",")
	feats := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", p, err)
		}
		feats = append(feats, f)
	}
	return feats, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("encode output")
	}
}
