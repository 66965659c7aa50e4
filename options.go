package thresh

// Option configures a Sweep.
type Option func(*config)

type config struct {
	concurrency int
}

func defaultConfig() config {
	return config{
		concurrency: 1,
	}
}

// WithConcurrency evaluates up to n thresholds at once (default: 1).
// Result order always follows the input thresholds.
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}
