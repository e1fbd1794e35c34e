package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/aavadhan10/ogc-dashboard/internal/domain"
	"github.com/aavadhan10/ogc-dashboard/internal/ingest"
	"github.com/aavadhan10/ogc-dashboard/internal/util"
)

// Sources names the CSV exports and their fixed leading skip rows.
type Sources struct {
	Entries         string         `yaml:"entries"`
	Attorneys       string         `yaml:"attorneys"`
	AttorneyClients string         `yaml:"attorney_clients"`
	Utilization     string         `yaml:"utilization"`
	SkipRows        map[string]int `yaml:"skip_rows"`
}

// Config is the dashboard configuration, loaded from a YAML file with
// environment overrides. Band ladders live here so the right thresholds
// for a deployment are a configuration choice, not a code fork.
type Config struct {
	Sources Sources `yaml:"sources"`
	DBPath  string  `yaml:"db_path"`

	// BillableActivities are the accepted activity-type labels counted as
	// billable, matched case-insensitively.
	BillableActivities []string `yaml:"billable_activities"`

	// BandLadder selects which ladder variant clients are banded with,
	// "fee" (default) or "revenue". Deployments differ on which taxonomy
	// their reporting uses, so the choice is configuration.
	BandLadder string `yaml:"band_ladder"`

	FeeLadder     *domain.Ladder `yaml:"fee_ladder"`
	RevenueLadder *domain.Ladder `yaml:"revenue_ladder"`

	// UtilizationPeriods overrides the number of months the monthly target
	// is scaled by. Zero derives it from the filtered window, which is the
	// intended behavior; a fixed value reproduces legacy single-month math.
	UtilizationPeriods int `yaml:"utilization_periods"`
}

type envOverrides struct {
	ConfigPath string `envconfig:"OGC_CONFIG"`
	DBPath     string `envconfig:"OGC_DB_PATH"`
	Entries    string `envconfig:"OGC_ENTRIES_CSV"`
	Attorneys  string `envconfig:"OGC_ATTORNEYS_CSV"`
}

// DefaultPath is the config file looked for when none is given.
const DefaultPath = "ogc-dashboard.yaml"

// Load reads configuration from the given YAML file, falling back to
// defaults when the file is absent. Environment variables override file
// values. An unparsable file is an error; a missing one is not.
func Load(path string) (*Config, error) {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if path == "" {
		path = DefaultPath
		if env.ConfigPath != "" {
			path = env.ConfigPath
		}
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if env.DBPath != "" {
		cfg.DBPath = env.DBPath
	}
	if env.Entries != "" {
		cfg.Sources.Entries = env.Entries
	}
	if env.Attorneys != "" {
		cfg.Sources.Attorneys = env.Attorneys
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		if dir, err := util.GetXDGDataDir(); err == nil {
			c.DBPath = filepath.Join(dir, "ogc-dashboard.db")
		} else {
			c.DBPath = "./ogc-dashboard.db"
		}
	}
	if c.Sources.Entries == "" {
		c.Sources.Entries = "SIX_FULL_MOS.csv"
	}
	if len(c.BillableActivities) == 0 {
		c.BillableActivities = []string{"Billable"}
	}
}

func (c *Config) validate() error {
	if c.UtilizationPeriods < 0 {
		return fmt.Errorf("utilization_periods must be >= 0, got %d", c.UtilizationPeriods)
	}
	switch c.BandLadder {
	case "", "fee", "revenue":
	default:
		return fmt.Errorf("band_ladder must be \"fee\" or \"revenue\", got %q", c.BandLadder)
	}
	for _, ladder := range []*domain.Ladder{c.FeeLadder, c.RevenueLadder} {
		if ladder == nil {
			continue
		}
		prev := 0.0
		for _, s := range ladder.Steps {
			if s.Threshold <= prev {
				return fmt.Errorf("ladder thresholds must be strictly ascending, got %v after %v", s.Threshold, prev)
			}
			if s.Label == "" {
				return fmt.Errorf("ladder step at %v has no label", s.Threshold)
			}
			prev = s.Threshold
		}
	}
	return nil
}

// FeeBands returns the configured fee ladder or the shipped default.
func (c *Config) FeeBands() domain.Ladder {
	if c.FeeLadder != nil {
		return *c.FeeLadder
	}
	return domain.DefaultFeeLadder()
}

// RevenueBands returns the configured revenue ladder or the shipped default.
func (c *Config) RevenueBands() domain.Ladder {
	if c.RevenueLadder != nil {
		return *c.RevenueLadder
	}
	return domain.DefaultRevenueLadder()
}

// ClientBands returns the ladder the active band_ladder variant selects.
func (c *Config) ClientBands() domain.Ladder {
	if c.BandLadder == "revenue" {
		return c.RevenueBands()
	}
	return c.FeeBands()
}

// IngestPaths maps the configured sources into loader paths.
func (c *Config) IngestPaths() ingest.Paths {
	return ingest.Paths{
		Entries:         c.Sources.Entries,
		Attorneys:       c.Sources.Attorneys,
		AttorneyClients: c.Sources.AttorneyClients,
		Utilization:     c.Sources.Utilization,
		SkipRows:        c.Sources.SkipRows,
	}
}
