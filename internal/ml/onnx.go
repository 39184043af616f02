package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"apex-ml/internal/common"
	"apex-ml/internal/features"
)

// ONNXPredictor runs a trained model through a Python helper process. Each
// prediction pipes the feature vector over stdin as JSON and reads the scored
// result from stdout. On any inference failure it falls back to the rule
// model so the serving contract never degrades below the placeholder policy.
type ONNXPredictor struct {
	modelPath  string
	pythonPath string
	scriptPath string
	timeout    time.Duration
	fallback   *SimplePredictor
	metrics    MetricsInterface
}

type inferenceRequest struct {
	Features []float64 `json:"features"`
}

type inferenceResponse struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// NewONNXPredictor loads a subprocess-backed predictor for the model at path.
// Returns an error when the model file or a Python 3 interpreter is missing;
// callers are expected to fall back to the rule model in that case.
func NewONNXPredictor(path string, timeout time.Duration, metrics MetricsInterface) (*ONNXPredictor, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model file %s: %w", path, err)
	}

	pythonPath, err := FindPython()
	if err != nil {
		return nil, err
	}

	scriptPath := filepath.Join(filepath.Dir(path), "onnx_inference.py")
	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		if err := writeInferenceScript(scriptPath); err != nil {
			return nil, fmt.Errorf("create inference script: %w", err)
		}
	}

	p := &ONNXPredictor{
		modelPath:  path,
		pythonPath: pythonPath,
		scriptPath: scriptPath,
		timeout:    timeout,
		fallback:   NewSimplePredictor(),
		metrics:    metrics,
	}

	log.Info().Str("model_path", path).Str("python_path", pythonPath).Msg("ONNX model loaded")
	return p, nil
}

func (p *ONNXPredictor) Name() string { return common.ONNXModel }

// Predict scores through the subprocess, falling back to the rule model when
// inference fails. Degenerate vectors take the fallback path directly without
// spawning a process.
func (p *ONNXPredictor) Predict(f features.Vector) (Score, error) {
	if !f.Complete() {
		return p.fallback.Predict(f)
	}

	result, err := p.infer(f)
	if err != nil {
		log.Error().Err(err).Msg("ONNX inference failed, using rule model")
		if p.metrics != nil {
			p.metrics.FailuresInc()
			p.metrics.FallbackInc()
		}
		return p.fallback.Predict(f)
	}
	return result, nil
}

func (p *ONNXPredictor) infer(f features.Vector) (Score, error) {
	reqJSON, err := json.Marshal(inferenceRequest{Features: f})
	if err != nil {
		return Score{}, fmt.Errorf("marshal inference request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.pythonPath, p.scriptPath, p.modelPath)
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			if p.metrics != nil {
				p.metrics.TimeoutsInc()
			}
			return Score{}, fmt.Errorf("inference timeout after %v", p.timeout)
		}
		return Score{}, fmt.Errorf("python inference failed: %w, stderr: %s", err, stderr.String())
	}

	var resp inferenceResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return Score{}, fmt.Errorf("parse inference response: %w, stdout: %s", err, stdout.String())
	}
	if resp.Error != "" {
		return Score{}, fmt.Errorf("python inference error: %s", resp.Error)
	}
	if resp.Score < 0 || resp.Score > 1 || resp.Score != resp.Score {
		return Score{}, fmt.Errorf("invalid score from model: %f", resp.Score)
	}
	if resp.Confidence < 0 || resp.Confidence > 1 || resp.Confidence != resp.Confidence {
		return Score{}, fmt.Errorf("invalid confidence from model: %f", resp.Confidence)
	}

	return Score{Score: resp.Score, Confidence: resp.Confidence}, nil
}

// FindPython resolves a Python 3 interpreter, preferring an active
// virtualenv. Shared with the training launcher.
func FindPython() (string, error) {
	if venvPath := os.Getenv("VIRTUAL_ENV"); venvPath != "" {
		candidates := []string{
			filepath.Join(venvPath, "bin", "python3"),
			filepath.Join(venvPath, "bin", "python"),
			filepath.Join(venvPath, "Scripts", "python.exe"),
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				return c, nil
			}
		}
	}

	for _, candidate := range []string{"python3", "python"} {
		path, err := exec.LookPath(candidate)
		if err != nil {
			continue
		}
		cmd := exec.Command(path, "-c", "import sys; exit(0 if sys.version_info[0] == 3 else 1)")
		if err := cmd.Run(); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no suitable Python 3 executable found")
}

func writeInferenceScript(scriptPath string) error {
	script := strings.TrimLeft(`
#!/usr/bin/env python3
"""ONNX inference helper for the APEX ML inference server."""
import sys
import json

try:
    import numpy as np
    import onnxruntime as ort
except ImportError as e:
    print(json.dumps({"error": f"missing dependency: {e}"}))
    sys.exit(1)


def main():
    if len(sys.argv) != 2:
        print(json.dumps({"error": "usage: onnx_inference.py <model_path>"}))
        sys.exit(1)

    try:
        request = json.load(sys.stdin)
        feats = np.array([request["features"]], dtype=np.float32)

        session = ort.InferenceSession(sys.argv[1])
        input_name = session.get_inputs()[0].name
        outputs = session.run(None, {input_name: feats})

        probs = outputs[-1]
        if hasattr(probs, "tolist"):
            probs = probs[0].tolist() if len(probs.shape) > 1 else probs.tolist()
        score = float(probs[-1]) if isinstance(probs, list) else float(probs)
        score = min(1.0, max(0.0, score))
        confidence = max(score, 1.0 - score)

        print(json.dumps({"score": score, "confidence": confidence}))
    except Exception as e:
        print(json.dumps({"error": str(e)}))
        sys.exit(1)


if __name__ == "__main__":
    main()
`, "\n")

	return os.WriteFile(scriptPath, []byte(script), 0o755)
}
