package table

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/format"
	"github.com/arloliu/partab/internal/logging"
	"github.com/arloliu/partab/internal/options"
	"github.com/arloliu/partab/metrics"
	"github.com/arloliu/partab/section"
	"github.com/arloliu/partab/types"
)

// DefaultAlpha is the concentration used when none is configured.
const DefaultAlpha = 1.0

// Config holds the construction-time settings shared by Table and FixedTable.
type Config struct {
	logger  types.Logger
	metrics types.MetricsCollector
	name    string
	checks  bool

	alpha  float64
	alphas []float64
}

// Option configures a table at construction.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
		alpha:   DefaultAlpha,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if cfg.checks {
		checksOnce.Do(func() {
			cfg.logger.Info("partition invariant checks enabled; every mutation is verified", "table", cfg.name)
		})
	}

	return cfg, nil
}

// checksOnce makes the invariant-check diagnostic fire once per process.
var checksOnce sync.Once

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(logger types.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithMetrics sets the metrics collector. A nil collector keeps the no-op default.
func WithMetrics(collector types.MetricsCollector) Option {
	return options.NoError(func(c *Config) {
		if collector != nil {
			c.metrics = collector
		}
	})
}

// WithName labels the table in logs and metrics.
func WithName(name string) Option {
	return options.NoError(func(c *Config) {
		c.name = name
	})
}

// WithInvariantChecks verifies the bookkeeping invariants after every mutation and
// panics on a violation. It costs O(groups) per call and is meant for tests and
// sampler development.
func WithInvariantChecks(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.checks = enabled
	})
}

// WithAlpha sets the initial concentration. For a FixedTable it sets every weight
// unless WithAlphas is also given.
func WithAlpha(alpha float64) Option {
	return options.New(func(c *Config) error {
		if err := validateConcentration(alpha); err != nil {
			return err
		}
		c.alpha = alpha

		return nil
	})
}

// WithAlphas sets the initial Dirichlet weights of a FixedTable. The length must
// equal K.
func WithAlphas(alphas []float64) Option {
	return options.New(func(c *Config) error {
		for _, a := range alphas {
			if err := validateConcentration(a); err != nil {
				return err
			}
		}
		c.alphas = slices.Clone(alphas)

		return nil
	})
}

func validateConcentration(alpha float64) error {
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return fmt.Errorf("%w: %v", errs.ErrInvalidConcentration, alpha)
	}

	return nil
}

// EncodeConfig holds per-call serialization settings.
type EncodeConfig struct {
	flag section.StateFlag
}

// EncodeOption configures a single Serialize or GetHP call.
type EncodeOption = options.Option[*EncodeConfig]

func newEncodeConfig(kind format.StateKind, opts ...EncodeOption) (*EncodeConfig, error) {
	cfg := &EncodeConfig{flag: section.NewStateFlag(kind)}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCompression sets the body compression. The default is format.CompressionNone.
func WithCompression(comp format.CompressionType) EncodeOption {
	return options.New(func(c *EncodeConfig) error {
		switch comp {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.flag.SetCompression(comp)
			return nil
		default:
			return fmt.Errorf("invalid state compression: %v", comp)
		}
	})
}

// WithLittleEndian writes fixed-width fields little-endian. It is the default option.
func WithLittleEndian() EncodeOption {
	return options.NoError(func(c *EncodeConfig) {
		c.flag.WithLittleEndian()
	})
}

// WithBigEndian writes fixed-width fields big-endian.
// It rarely needs to be used unless interoperability with big-endian systems is required.
func WithBigEndian() EncodeOption {
	return options.NoError(func(c *EncodeConfig) {
		c.flag.WithBigEndian()
	})
}
