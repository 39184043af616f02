package common

// Service identity reported on the root and health endpoints.
const (
	ServiceName    = "APEX ML Inference Server"
	ServiceVersion = "1.0.0"
	SimpleModel    = "simple_predictor"
	ONNXModel      = "onnx_predictor"
)

// Environment variable keys
const (
	EnvMLServerHost     = "ML_SERVER_HOST"
	EnvMLServerPort     = "ML_SERVER_PORT"
	EnvModelPath        = "MODEL_PATH"
	EnvDataPath         = "DATA_PATH"
	EnvLogLevel         = "LOG_LEVEL"
	EnvConfigFile       = "CONFIG_FILE"
	EnvApproveThreshold = "APPROVE_THRESHOLD"
	EnvPredictTimeout   = "PREDICT_TIMEOUT"
)

// Configuration defaults
const (
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 8000
	DefaultApproveThreshold = 0.6
)

// Rule model constants. These mirror the placeholder scoring policy that a
// trained model will eventually replace; the numbers are part of the external
// contract until that swap happens.
const (
	ProfitSaturationUSD = 20.0
	HighGasThreshold    = 500000.0
	HighGasPenalty      = 0.8
	ConfidentProfitUSD  = 5.0
	HighConfidence      = 0.6
	LowConfidence       = 0.4
	FallbackScore       = 0.5
	FallbackConfidence  = 0.5
)

// Validation constants
const (
	MinServerPort = 1
	MaxServerPort = 65535
)
