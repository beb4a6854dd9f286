package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/copulanet/oracle"
)

// ErrInvalidConfig indicates an unreadable file or an out-of-range value.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "COPULANET_"

// PC configures the PC learner.
type PC struct {
	Alpha                  float64 `yaml:"alpha"`
	MaxConditioningSetSize int     `yaml:"max_conditioning_set_size"`
	// Test is "cmi" or "hellinger".
	Test          string `yaml:"test"`
	OptimalPolicy bool   `yaml:"optimal_policy"`
	Workers       int    `yaml:"workers"`
}

// MIIC configures the MIIC learner.
type MIIC struct {
	Alpha                  float64 `yaml:"alpha"`
	CMode                  string  `yaml:"cmode"`
	KMode                  string  `yaml:"kmode"`
	MaxConditioningSetSize int     `yaml:"max_conditioning_set_size"`
}

// Tabu configures the tabu search.
type Tabu struct {
	CMode         string `yaml:"cmode"`
	KMode         string `yaml:"kmode"`
	MaxParents    int    `yaml:"max_parents"`
	Restarts      int    `yaml:"restarts"`
	TabuListSize  int    `yaml:"tabu_list_size"`
	MaxIterations int    `yaml:"max_iterations"`
	Seed          uint64 `yaml:"seed"`
}

// Factory configures the network factory.
type Factory struct {
	Alpha                  float64 `yaml:"alpha"`
	MaxParents             int     `yaml:"max_parents"`
	MaxConditioningSetSize int     `yaml:"max_conditioning_set_size"`
	LearningRatio          float64 `yaml:"learning_ratio"`
	WorkInCopulaSpace      bool    `yaml:"work_in_copula_space"`
	Workers                int     `yaml:"workers"`
}

// JTBernstein configures the junction-tree Bernstein copula factory.
type JTBernstein struct {
	BinNumber              int     `yaml:"bin_number"`
	Alpha                  float64 `yaml:"alpha"`
	MaxConditioningSetSize int     `yaml:"max_conditioning_set_size"`
	MaxTrials              int     `yaml:"max_trials"`
}

// Defaults groups every section.
type Defaults struct {
	PC          PC          `yaml:"pc"`
	MIIC        MIIC        `yaml:"miic"`
	Tabu        Tabu        `yaml:"tabu"`
	Factory     Factory     `yaml:"factory"`
	JTBernstein JTBernstein `yaml:"jtbernstein"`
}

// Default returns the package defaults.
func Default() Defaults {
	return Defaults{
		PC:          PC{Alpha: 0.05, MaxConditioningSetSize: 5, Test: "cmi", Workers: 1},
		MIIC:        MIIC{Alpha: oracle.DefaultAlpha, CMode: "Bernstein", KMode: "Naive", MaxConditioningSetSize: 5},
		Tabu:        Tabu{CMode: "Gaussian", KMode: "NoCorr", MaxParents: 4, Restarts: 1, TabuListSize: 2, MaxIterations: 1000, Seed: 1},
		Factory:     Factory{Alpha: 0.1, MaxParents: 4, MaxConditioningSetSize: 5, LearningRatio: 0.8, Workers: 1},
		JTBernstein: JTBernstein{Alpha: 0.1, MaxConditioningSetSize: 5},
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and the environment, validated.
func Load(path string) (Defaults, error) {
	d := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return d, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if err = yaml.Unmarshal(data, &d); err != nil {
			return d, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	}
	if err := d.ApplyEnv(os.LookupEnv); err != nil {
		return d, err
	}

	return d, d.Validate()
}

// LoadEnv loads .env files into the environment without overriding set
// variables. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, f, err)
		}
	}

	return nil
}

// ApplyEnv overrides fields from COPULANET_<SECTION>_<FIELD> variables,
// e.g. COPULANET_PC_ALPHA or COPULANET_TABU_MAX_PARENTS.
func (d *Defaults) ApplyEnv(lookup func(string) (string, bool)) error {
	for key, set := range d.fields() {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		if err := set(strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %w", ErrInvalidConfig, EnvPrefix, key, v, err)
		}
	}

	return nil
}

// fields maps environment keys to setters.
func (d *Defaults) fields() map[string]func(string) error {
	return map[string]func(string) error{
		"PC_ALPHA":                              floatField(&d.PC.Alpha),
		"PC_MAX_CONDITIONING_SET_SIZE":          intField(&d.PC.MaxConditioningSetSize),
		"PC_TEST":                               stringField(&d.PC.Test),
		"PC_OPTIMAL_POLICY":                     boolField(&d.PC.OptimalPolicy),
		"PC_WORKERS":                            intField(&d.PC.Workers),
		"MIIC_ALPHA":                            floatField(&d.MIIC.Alpha),
		"MIIC_CMODE":                            stringField(&d.MIIC.CMode),
		"MIIC_KMODE":                            stringField(&d.MIIC.KMode),
		"MIIC_MAX_CONDITIONING_SET_SIZE":        intField(&d.MIIC.MaxConditioningSetSize),
		"TABU_CMODE":                            stringField(&d.Tabu.CMode),
		"TABU_KMODE":                            stringField(&d.Tabu.KMode),
		"TABU_MAX_PARENTS":                      intField(&d.Tabu.MaxParents),
		"TABU_RESTARTS":                         intField(&d.Tabu.Restarts),
		"TABU_TABU_LIST_SIZE":                   intField(&d.Tabu.TabuListSize),
		"TABU_MAX_ITERATIONS":                   intField(&d.Tabu.MaxIterations),
		"TABU_SEED":                             uintField(&d.Tabu.Seed),
		"FACTORY_ALPHA":                         floatField(&d.Factory.Alpha),
		"FACTORY_MAX_PARENTS":                   intField(&d.Factory.MaxParents),
		"FACTORY_MAX_CONDITIONING_SET_SIZE":     intField(&d.Factory.MaxConditioningSetSize),
		"FACTORY_LEARNING_RATIO":                floatField(&d.Factory.LearningRatio),
		"FACTORY_WORK_IN_COPULA_SPACE":          boolField(&d.Factory.WorkInCopulaSpace),
		"FACTORY_WORKERS":                       intField(&d.Factory.Workers),
		"JTBERNSTEIN_BIN_NUMBER":                intField(&d.JTBernstein.BinNumber),
		"JTBERNSTEIN_ALPHA":                     floatField(&d.JTBernstein.Alpha),
		"JTBERNSTEIN_MAX_CONDITIONING_SET_SIZE": intField(&d.JTBernstein.MaxConditioningSetSize),
		"JTBERNSTEIN_MAX_TRIALS":                intField(&d.JTBernstein.MaxTrials),
	}
}

func floatField(p *float64) func(string) error {
	return func(s string) (err error) { *p, err = strconv.ParseFloat(s, 64); return }
}

func intField(p *int) func(string) error {
	return func(s string) (err error) { *p, err = strconv.Atoi(s); return }
}

func uintField(p *uint64) func(string) error {
	return func(s string) (err error) { *p, err = strconv.ParseUint(s, 10, 64); return }
}

func boolField(p *bool) func(string) error {
	return func(s string) (err error) { *p, err = strconv.ParseBool(s); return }
}

func stringField(p *string) func(string) error {
	return func(s string) error { *p = s; return nil }
}

// Validate checks every section and joins the violations.
func (d Defaults) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}
	level := func(a float64) bool { return a > 0 && a < 1 }
	mode := func(c, k string) bool {
		_, errC := oracle.ParseCMode(c)
		_, errK := oracle.ParseKMode(k)
		return errC == nil && errK == nil
	}

	check(level(d.PC.Alpha), "pc.alpha %g", d.PC.Alpha)
	check(d.PC.MaxConditioningSetSize >= 0, "pc.max_conditioning_set_size %d", d.PC.MaxConditioningSetSize)
	check(d.PC.Test == "cmi" || d.PC.Test == "hellinger", "pc.test %q", d.PC.Test)
	check(d.PC.Workers >= 1, "pc.workers %d", d.PC.Workers)

	check(d.MIIC.Alpha >= 0, "miic.alpha %g", d.MIIC.Alpha)
	check(mode(d.MIIC.CMode, d.MIIC.KMode), "miic modes %q/%q", d.MIIC.CMode, d.MIIC.KMode)
	check(d.MIIC.MaxConditioningSetSize >= 0, "miic.max_conditioning_set_size %d", d.MIIC.MaxConditioningSetSize)

	check(mode(d.Tabu.CMode, d.Tabu.KMode), "tabu modes %q/%q", d.Tabu.CMode, d.Tabu.KMode)
	check(d.Tabu.MaxParents >= 0, "tabu.max_parents %d", d.Tabu.MaxParents)
	check(d.Tabu.Restarts >= 1, "tabu.restarts %d", d.Tabu.Restarts)
	check(d.Tabu.TabuListSize >= 0, "tabu.tabu_list_size %d", d.Tabu.TabuListSize)
	check(d.Tabu.MaxIterations >= 0, "tabu.max_iterations %d", d.Tabu.MaxIterations)

	check(level(d.Factory.Alpha), "factory.alpha %g", d.Factory.Alpha)
	check(d.Factory.MaxParents >= 0, "factory.max_parents %d", d.Factory.MaxParents)
	check(d.Factory.MaxConditioningSetSize >= 0, "factory.max_conditioning_set_size %d", d.Factory.MaxConditioningSetSize)
	check(level(d.Factory.LearningRatio), "factory.learning_ratio %g", d.Factory.LearningRatio)
	check(d.Factory.Workers >= 1, "factory.workers %d", d.Factory.Workers)

	check(d.JTBernstein.BinNumber >= 0, "jtbernstein.bin_number %d", d.JTBernstein.BinNumber)
	check(level(d.JTBernstein.Alpha), "jtbernstein.alpha %g", d.JTBernstein.Alpha)
	check(d.JTBernstein.MaxConditioningSetSize >= 0, "jtbernstein.max_conditioning_set_size %d", d.JTBernstein.MaxConditioningSetSize)
	check(d.JTBernstein.MaxTrials >= 0, "jtbernstein.max_trials %d", d.JTBernstein.MaxTrials)

	return errors.Join(errs...)
}

// YAML renders d as a YAML document.
func (d Defaults) YAML() ([]byte, error) { return yaml.Marshal(d) }
