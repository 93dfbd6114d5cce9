// Package config loads ndview settings from defaults, an optional config
// file, NDVIEW_* environment variables and command line flags.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/born-ml/ndview/internal/parallel"
	"github.com/born-ml/ndview/internal/tensor"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	Parallel ParallelConfig `mapstructure:"parallel"`
	LogLevel string         `mapstructure:"log_level"`
}

type EngineConfig struct {
	Order    string `mapstructure:"order"`
	Division string `mapstructure:"division"`
}

type ParallelConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Workers  int  `mapstructure:"workers"`
	MinChunk int  `mapstructure:"min_chunk"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps each flag to the config key it sets.
var flagKeys = map[string]string{
	"order":              "engine.order",
	"division":           "engine.division",
	"parallel":           "parallel.enabled",
	"workers":            "parallel.workers",
	"parallel-min-chunk": "parallel.min_chunk",
	"log-level":          "log_level",
}

func DefaultConfig() Config {
	p := parallel.DefaultConfig()
	return Config{
		Engine: EngineConfig{
			Order:    tensor.DefaultOrder().String(),
			Division: tensor.DivisionAuto.String(),
		},
		Parallel: ParallelConfig{
			Enabled:  p.Enabled,
			Workers:  p.NumWorkers,
			MinChunk: p.MinChunkSize,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("order", defaults.Engine.Order, "Default traversal order (c|f)")
	fs.String("division", defaults.Engine.Division, "Flat index division policy (auto|native|reciprocal)")
	fs.Bool("parallel", defaults.Parallel.Enabled, "Copy large views on several goroutines")
	fs.Int("workers", defaults.Parallel.Workers, "Maximum goroutines per parallel copy")
	fs.Int("parallel-min-chunk", defaults.Parallel.MinChunk, "Minimum elements per goroutine")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		fs := opts.Cmd.Flags()
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	v.SetEnvPrefix("NDVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("ndview")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("engine.order", c.Engine.Order)
	v.SetDefault("engine.division", c.Engine.Division)
	v.SetDefault("parallel.enabled", c.Parallel.Enabled)
	v.SetDefault("parallel.workers", c.Parallel.Workers)
	v.SetDefault("parallel.min_chunk", c.Parallel.MinChunk)
	v.SetDefault("log_level", c.LogLevel)
}

// EngineSettings parses the engine section.
func (c Config) EngineSettings() (tensor.Order, tensor.DivisionPolicy, error) {
	order, err := tensor.ParseOrder(c.Engine.Order)
	if err != nil {
		return 0, 0, fmt.Errorf("engine.order: %w", err)
	}
	policy, err := tensor.ParseDivisionPolicy(c.Engine.Division)
	if err != nil {
		return 0, 0, fmt.Errorf("engine.division: %w", err)
	}
	return order, policy, nil
}

// ParallelSettings converts the parallel section.
func (c Config) ParallelSettings() (parallel.Config, error) {
	if c.Parallel.Workers < 1 {
		return parallel.Config{}, fmt.Errorf("parallel.workers must be >= 1, got %d", c.Parallel.Workers)
	}
	if c.Parallel.MinChunk < 1 {
		return parallel.Config{}, fmt.Errorf("parallel.min_chunk must be >= 1, got %d", c.Parallel.MinChunk)
	}
	return parallel.Config{
		Enabled:      c.Parallel.Enabled,
		NumWorkers:   c.Parallel.Workers,
		MinChunkSize: c.Parallel.MinChunk,
	}, nil
}

// Apply validates c and installs its engine and parallel settings as the
// process-wide defaults.
func Apply(c Config) error {
	order, policy, err := c.EngineSettings()
	if err != nil {
		return err
	}
	pcfg, err := c.ParallelSettings()
	if err != nil {
		return err
	}
	tensor.SetDefaultOrder(order)
	tensor.SetDivisionPolicy(policy)
	tensor.SetParallelConfig(pcfg)
	slog.Debug("engine configured",
		"order", order.String(),
		"division", policy.String(),
		"resolved_division", tensor.ResolvedDivisionPolicy().String(),
		"parallel", pcfg.Enabled,
		"workers", pcfg.NumWorkers)
	return nil
}

// ParseLogLevel maps a level name to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}
