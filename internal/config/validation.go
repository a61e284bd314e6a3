package config

import "fmt"

func validate(c *Config) error {
	if c.StartURL == "" {
		return fmt.Errorf("start url must not be empty")
	}
	if c.NavTimeout <= 0 || c.WaitTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0")
	}
	if c.NavRetries < 0 {
		return fmt.Errorf("nav retries must be >= 0")
	}
	if c.RateRPS <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("rate limit must be > 0")
	}
	if c.OutputCSV == "" || c.CheckpointFile == "" {
		return fmt.Errorf("output and checkpoint paths must not be empty")
	}
	return nil
}
