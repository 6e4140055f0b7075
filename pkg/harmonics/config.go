package harmonics

import "github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"

const (
	// DefaultMaxHarmonic is the conventional catalog limit.
	DefaultMaxHarmonic = 16
	// MaxHarmonicLimit is the highest harmonic any query accepts. Node
	// sets are memoised per harmonic, so the limit also bounds the memo.
	MaxHarmonicLimit = 256
)

type Config struct {
	MaxHarmonic int
	Tolerance   float64
	Tie         pitch.Tie
	Spelling    pitch.Spelling
	Logger      Logger
}

type Option func(*Config)

func WithMaxHarmonic(n int) Option {
	return func(c *Config) {
		c.MaxHarmonic = n
	}
}

// WithTolerance sets the default cents tolerance for Positions.
func WithTolerance(cents float64) Option {
	return func(c *Config) {
		c.Tolerance = cents
	}
}

func WithTie(tie pitch.Tie) Option {
	return func(c *Config) {
		c.Tie = tie
	}
}

func WithSpelling(s pitch.Spelling) Option {
	return func(c *Config) {
		c.Spelling = s
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func defaultConfig() *Config {
	return &Config{
		MaxHarmonic: DefaultMaxHarmonic,
		Tolerance:   50,
		Tie:         pitch.TieDown,
		Spelling:    pitch.Fifths,
		Logger:      nil,
	}
}
