package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/satheesh067/Flight-Price-Prediction/features"
)

// Remote calls an out-of-process model server, e.g. the pickled regressor
// behind a small Python HTTP wrapper.
type Remote struct {
	url    string
	client *http.Client
}

type remoteRequest struct {
	Features []float64 `json:"features"`
}

type remoteResponse struct {
	Price *float64 `json:"price"`
	Error string   `json:"error,omitempty"`
}

func NewRemote(url string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Remote{url: url, client: &http.Client{Timeout: timeout}}
}

func (r *Remote) Predict(ctx context.Context, vec features.Vector) (float64, error) {
	body, err := json.Marshal(remoteRequest{Features: vec})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model server request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("model server read: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return 0, fmt.Errorf("model server status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var out remoteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("model server decode: %w", err)
	}
	if out.Price == nil {
		if out.Error != "" {
			return 0, fmt.Errorf("model server: %s", out.Error)
		}
		return 0, fmt.Errorf("model server response missing price")
	}
	return *out.Price, nil
}
