// Package judge is a thin client for the remote judged-execution API.
// The service treats the executor as opaque: code goes in, an outcome and
// resource measurements come out.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/codetrack/backend/internal/domain"
)

// ExecutionRequest is the payload sent to the execution API
type ExecutionRequest struct {
	Language  string `json:"language"`
	Code      string `json:"code"`
	ProblemID string `json:"problem_id"`
}

// ExecutionResult is the judged outcome returned by the execution API
type ExecutionResult struct {
	Status          domain.SubmissionStatus `json:"status"`
	ExecutionTimeMs int64                   `json:"execution_time_ms"`
	MemoryUsedKB    int64                   `json:"memory_used_kb"`
	Output          string                  `json:"output"`
}

// Client calls the remote code execution service
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new judge client
func NewClient(config *ClientConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
	}
}

// Execute runs the given code against the problem's test cases remotely.
// Transport failures surface as ErrJudgeUnavailable; a judged rejection is
// not an error, it is a FAILED or ERROR result.
func (c *Client) Execute(ctx context.Context, req *ExecutionRequest) (*ExecutionResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal execution request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.WrapError(domain.ErrJudgeUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.WrapError(domain.ErrJudgeUnavailable,
			fmt.Sprintf("execution API returned status %d", resp.StatusCode))
	}

	var result ExecutionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, domain.WrapError(domain.ErrJudgeUnavailable, "failed to parse execution response")
	}

	switch result.Status {
	case domain.StatusAccepted, domain.StatusFailed, domain.StatusError:
	default:
		// Anything the API invents beyond the known outcomes is recorded
		// as an execution error rather than rejected.
		result.Status = domain.StatusError
	}

	return &result, nil
}
