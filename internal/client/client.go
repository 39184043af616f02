// Package client is a small Go SDK for the inference service API.
package client

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"apex-ml/internal/service"
)

// Client calls the inference service over HTTP.
type Client struct {
	base string
	rest *resty.Client
}

// Health is the liveness payload reported by the service.
type Health struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

type apiError struct {
	Detail string `json:"detail"`
}

// New creates a client for the service at base (e.g. "http://localhost:8000").
func New(base string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second) // default fallback
	}
	return &Client{base: base, rest: r}
}

// Predict scores a single opportunity.
func (c *Client) Predict(req service.PredictionRequest) (service.PredictionResponse, error) {
	var result service.PredictionResponse
	var apiErr apiError

	resp, err := c.rest.R().
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post(c.base + "/predict")
	if err != nil {
		return service.PredictionResponse{}, err
	}
	if resp.IsError() {
		return service.PredictionResponse{}, fmt.Errorf("predict: status %d: %s", resp.StatusCode(), apiErr.Detail)
	}
	return result, nil
}

// PredictBatch scores a batch of opportunities, results in request order.
func (c *Client) PredictBatch(reqs []service.PredictionRequest) ([]service.PredictionResponse, error) {
	var results []service.PredictionResponse
	var apiErr apiError

	resp, err := c.rest.R().
		SetBody(reqs).
		SetResult(&results).
		SetError(&apiErr).
		Post(c.base + "/batch_predict")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("batch predict: status %d: %s", resp.StatusCode(), apiErr.Detail)
	}
	return results, nil
}

// Health fetches the service liveness status.
func (c *Client) Health() (Health, error) {
	var health Health

	resp, err := c.rest.R().
		SetResult(&health).
		Get(c.base + "/health")
	if err != nil {
		return Health{}, err
	}
	if resp.IsError() {
		return Health{}, fmt.Errorf("health: status %d", resp.StatusCode())
	}
	return health, nil
}
