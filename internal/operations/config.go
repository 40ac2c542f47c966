package operations

import "time"

// Config bounds how long each step may run.
type Config struct {
	Default time.Duration            `json:"default"`
	PerStep map[string]time.Duration `json:"per_step,omitempty"`
}

// NewConfig gives the loading steps the longer budget since they decode
// every yearly export.
func NewConfig() *Config {
	return (&Config{Default: DefaultStageTimeout}).
		WithTimeout(StageIDLoad, DefaultLoadTimeout).
		WithTimeout(StageIDSource, DefaultLoadTimeout)
}

// TimeoutFor returns the budget of step id.
func (c *Config) TimeoutFor(id string) time.Duration {
	if d, ok := c.PerStep[id]; ok && d > 0 {
		return d
	}
	if c.Default > 0 {
		return c.Default
	}
	return DefaultStageTimeout
}

// WithTimeout overrides the budget of step id and returns c.
func (c *Config) WithTimeout(id string, d time.Duration) *Config {
	if c.PerStep == nil {
		c.PerStep = make(map[string]time.Duration)
	}
	c.PerStep[id] = d
	return c
}
