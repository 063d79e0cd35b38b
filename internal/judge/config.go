package judge

import "time"

// ClientConfig holds the execution API connection settings
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}
