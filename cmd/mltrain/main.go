// Command mltrain launches the Python model training pipeline. It has no
// interface into the running inference service; the trained model is picked
// up on the next server start via MODEL_PATH.
package main

import (
	"flag"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"apex-ml/internal/common"
	"apex-ml/internal/ml"
	"apex-ml/internal/storage"
)

func main() {
	_ = godotenv.Load()

	modelDir := flag.String("model-dir", filepath.Join("python", "model"), "directory holding the training entry point")
	exportDays := flag.Int("export-days", 30, "days of captured samples to export before training")
	flag.Parse()

	if _, err := os.Stat(*modelDir); os.IsNotExist(err) {
		log.Fatal().Str("dir", *modelDir).Msg("model directory not found, check the project structure")
	}

	trainScript := filepath.Join(*modelDir, "train.py")
	if _, err := os.Stat(trainScript); os.IsNotExist(err) {
		log.Fatal().Str("script", trainScript).Msg("training script not found")
	}

	exportSamples(*modelDir, *exportDays)

	pythonPath, err := ml.FindPython()
	if err != nil {
		log.Fatal().Err(err).Msg("no Python interpreter for training")
	}

	log.Info().Str("script", trainScript).Str("python", pythonPath).Msg("starting model training")

	cmd := exec.Command(pythonPath, "train.py")
	cmd.Dir = *modelDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}

	log.Info().Msg("model training complete")
}

// exportSamples dumps captured prediction samples to CSV for the trainer.
// Skipped when no sample store is configured.
func exportSamples(modelDir string, days int) {
	dataPath := os.Getenv(common.EnvDataPath)
	if dataPath == "" {
		log.Info().Msg("DATA_PATH not set, skipping sample export")
		return
	}

	store, err := storage.New(dataPath)
	if err != nil {
		log.Warn().Err(err).Msg("sample store unavailable, skipping export")
		return
	}
	defer store.Close()

	outPath := filepath.Join(modelDir, "training_data.csv")
	out, err := os.Create(outPath)
	if err != nil {
		log.Warn().Err(err).Str("path", outPath).Msg("cannot create export file")
		return
	}
	defer out.Close()

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	n, err := store.ExportCSV(out, start, end)
	if err != nil {
		log.Warn().Err(err).Msg("sample export failed")
		return
	}
	log.Info().Int("samples", n).Str("path", outPath).Msg("training data exported")
}
