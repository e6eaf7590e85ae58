// Package config loads stampcheck.conf files.
//
// Configuration files are looked up in the directory of a package and
// all of its parents. Files closer to the package take precedence;
// lists may refer to the list of the parent configuration with the
// special value "inherit".
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/tools/go/analysis"
)

// Analyzer loads the configuration of the package being analyzed. Its
// result is a *Config; use For to access it.
var Analyzer = &analysis.Analyzer{
	Name: "config",
	Doc:  "loads stampcheck.conf files for a package",
	Run: func(pass *analysis.Pass) (interface{}, error) {
		if len(pass.Files) == 0 {
			cfg := DefaultConfig
			return &cfg, nil
		}
		path := pass.Fset.PositionFor(pass.Files[0].Pos(), false).Filename
		if path == "" {
			cfg := DefaultConfig
			return &cfg, nil
		}
		cfg, err := Load(filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", ConfigName, err)
		}
		return &cfg, nil
	},
	RunDespiteErrors: true,
	ResultType:       reflect.TypeOf((*Config)(nil)),
}

// For returns the configuration of the package being analyzed by pass.
// The analyzer must require Analyzer.
func For(pass *analysis.Pass) *Config {
	return pass.ResultOf[Analyzer].(*Config)
}

type config struct {
	cfg  Config
	meta toml.MetaData
}

func mergeLists(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	for _, el := range b {
		if el == "inherit" {
			out = append(out, a...)
		} else {
			out = append(out, el)
		}
	}
	return out
}

func normalizeList(list []string) []string {
	if len(list) > 1 {
		sort.Strings(list)
		nlist := make([]string, 0, len(list))
		nlist = append(nlist, list[0])
		for i, el := range list[1:] {
			if el != list[i] {
				nlist = append(nlist, el)
			}
		}
		list = nlist
	}

	for _, el := range list {
		if el == "inherit" {
			// The default configuration doesn't use "inherit", so
			// merging resolves all of them.
			panic(`unresolved "inherit"`)
		}
		if el == "all" {
			return []string{"all"}
		}
	}

	return list
}

func (cfg config) Merge(ocfg config) config {
	if ocfg.meta.IsDefined("checks", "enabled_checks") {
		cfg.cfg.Checks.EnabledChecks = mergeLists(cfg.cfg.Checks.EnabledChecks, ocfg.cfg.Checks.EnabledChecks)
	}
	if ocfg.meta.IsDefined("checks", "disabled_checks") {
		cfg.cfg.Checks.DisabledChecks = mergeLists(cfg.cfg.Checks.DisabledChecks, ocfg.cfg.Checks.DisabledChecks)
	}
	if ocfg.meta.IsDefined("analysis", "widening_threshold") {
		cfg.cfg.Analysis.WideningThreshold = ocfg.cfg.Analysis.WideningThreshold
	}
	if ocfg.meta.IsDefined("analysis", "track_unsigned") {
		cfg.cfg.Analysis.TrackUnsigned = ocfg.cfg.Analysis.TrackUnsigned
	}
	return cfg
}

type Config struct {
	Checks   Checklist      `toml:"checks"`
	Analysis AnalysisConfig `toml:"analysis"`
}

type Checklist struct {
	EnabledChecks  []string `toml:"enabled_checks"`
	DisabledChecks []string `toml:"disabled_checks"`
}

// IsEnabled reports whether the check with the given ID is enabled.
// Entries may end in a '*' to match all checks with that prefix;
// disabled checks take precedence over enabled ones.
func (c Checklist) IsEnabled(check string) bool {
	return matches(c.EnabledChecks, check) && !matches(c.DisabledChecks, check)
}

func matches(list []string, check string) bool {
	for _, el := range list {
		switch {
		case el == "all":
			return true
		case strings.HasSuffix(el, "*"):
			if strings.HasPrefix(check, strings.TrimSuffix(el, "*")) {
				return true
			}
		case el == check:
			return true
		}
	}
	return false
}

// AnalysisConfig controls the stamp analysis.
type AnalysisConfig struct {
	// The number of times the stamp of a value may change before it is
	// widened to the unrestricted stamp.
	WideningThreshold int `toml:"widening_threshold"`
	// Whether values of unsigned integer types are tracked.
	TrackUnsigned bool `toml:"track_unsigned"`
}

var DefaultConfig = Config{
	Checks: Checklist{
		EnabledChecks:  []string{"all"},
		DisabledChecks: []string{},
	},
	Analysis: AnalysisConfig{
		WideningThreshold: 8,
		TrackUnsigned:     true,
	},
}

const ConfigName = "stampcheck.conf"

func parseConfigs(dir string) ([]config, error) {
	var out []config

	for dir != "" {
		path := filepath.Join(dir, ConfigName)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			ndir := filepath.Dir(dir)
			if ndir == dir {
				break
			}
			dir = ndir
			continue
		}
		if err != nil {
			return nil, err
		}
		var cfg Config
		meta, err := toml.DecodeReader(f, &cfg)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		out = append(out, config{cfg, meta})
		ndir := filepath.Dir(dir)
		if ndir == dir {
			break
		}
		dir = ndir
	}
	out = append(out, config{
		cfg:  DefaultConfig,
		meta: toml.MetaData{}, // meta of the base config should never be accessed
	})
	if len(out) < 2 {
		return out, nil
	}
	for i := 0; i < len(out)/2; i++ {
		out[i], out[len(out)-1-i] = out[len(out)-1-i], out[i]
	}
	return out, nil
}

func mergeConfigs(confs []config) Config {
	if len(confs) == 0 {
		// parseConfigs always returns the default config
		panic("trying to merge zero configs")
	}
	if len(confs) == 1 {
		return confs[0].cfg
	}
	conf := confs[0]
	for _, oconf := range confs[1:] {
		conf = conf.Merge(oconf)
	}
	return conf.cfg
}

// Load returns the merged configuration for the directory dir.
func Load(dir string) (Config, error) {
	confs, err := parseConfigs(dir)
	if err != nil {
		return Config{}, err
	}
	conf := mergeConfigs(confs)

	conf.Checks.EnabledChecks = normalizeList(conf.Checks.EnabledChecks)
	conf.Checks.DisabledChecks = normalizeList(conf.Checks.DisabledChecks)

	if conf.Analysis.WideningThreshold < 1 {
		return Config{}, fmt.Errorf("analysis.widening_threshold must be positive, is %d", conf.Analysis.WideningThreshold)
	}

	return conf, nil
}
