package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlScenarioFile is the top-level YAML structure for scenario files.
type yamlScenarioFile struct {
	Scenario yamlScenario `yaml:"scenario"`
}

// yamlScenario is the YAML representation of a scenario.
type yamlScenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Layout      string        `yaml:"layout"`
	AttackPower yamlPair      `yaml:"attack_power"`
	HitPoints   yamlPair      `yaml:"hit_points"`
	Expect      *yamlExpected `yaml:"expect"`
}

// yamlPair holds one optional value per faction.
type yamlPair struct {
	A int `yaml:"a"`
	B int `yaml:"b"`
}

// yamlExpected is the YAML representation of a known result.
type yamlExpected struct {
	Rounds    int    `yaml:"rounds"`
	HitPoints int    `yaml:"hit_points"`
	Winner    string `yaml:"winner"`
	// MinAttackPower is the smallest faction A attack power that wins with no
	// faction A losses; zero when not known.
	MinAttackPower int `yaml:"min_attack_power"`
}

// Expected is a known outcome recorded alongside a scenario.
type Expected struct {
	Rounds         int
	HitPoints      int
	Winner         string
	MinAttackPower int
}

// Score returns Rounds * HitPoints.
func (e Expected) Score() int { return e.Rounds * e.HitPoints }

// Scenario is a named battle map with optional per-faction overrides.
// Zero overrides mean "use the configured value".
type Scenario struct {
	Name        string
	Description string
	Layout      *Layout
	// AttackPower and HitPoints are indexed by roster.Faction.
	AttackPower [2]int
	HitPoints   [2]int
	// Expect is nil when the scenario carries no known result.
	Expect *Expected
}

// LoadScenarioFromFile reads and validates a single scenario YAML file.
//
// Precondition: path must point to a YAML scenario file.
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadScenarioFromFile(path string, legend Legend) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}
	return LoadScenarioFromBytes(data, legend)
}

// LoadScenarioFromBytes parses and validates a scenario from YAML bytes.
//
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadScenarioFromBytes(data []byte, legend Legend) (*Scenario, error) {
	var file yamlScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	ys := file.Scenario
	if ys.Name == "" {
		return nil, errors.New("validating scenario: name must not be empty")
	}

	l, err := Parse(ys.Layout, legend)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", ys.Name, err)
	}

	sc := &Scenario{
		Name:        ys.Name,
		Description: strings.TrimSpace(ys.Description),
		Layout:      l,
		AttackPower: [2]int{ys.AttackPower.A, ys.AttackPower.B},
		HitPoints:   [2]int{ys.HitPoints.A, ys.HitPoints.B},
	}
	for i := 0; i < 2; i++ {
		if sc.AttackPower[i] < 0 || sc.HitPoints[i] < 0 {
			return nil, fmt.Errorf("scenario %q: attack_power and hit_points must not be negative", ys.Name)
		}
	}
	if ys.Expect != nil {
		if ys.Expect.Rounds < 0 || ys.Expect.HitPoints < 0 || ys.Expect.MinAttackPower < 0 {
			return nil, fmt.Errorf("scenario %q: expect values must not be negative", ys.Name)
		}
		sc.Expect = &Expected{
			Rounds:         ys.Expect.Rounds,
			HitPoints:      ys.Expect.HitPoints,
			Winner:         ys.Expect.Winner,
			MinAttackPower: ys.Expect.MinAttackPower,
		}
	}
	return sc, nil
}

// LoadScenariosFromDir loads every YAML file in dir, sorted by file name.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated scenarios or the first error encountered.
func LoadScenariosFromDir(dir string, legend Legend) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		sc, err := LoadScenarioFromFile(filepath.Join(dir, name), legend)
		if err != nil {
			return nil, fmt.Errorf("loading scenario from %s: %w", name, err)
		}
		scenarios = append(scenarios, sc)
	}

	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	return scenarios, nil
}
