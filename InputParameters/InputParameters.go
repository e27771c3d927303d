package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/wavespeed/riemann"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title             string                        `yaml:"Title"`
	Gamma             float64                       `yaml:"Gamma"`
	Covolume          float64                       `yaml:"Covolume"`
	NewtonMaxIter     int                           `yaml:"NewtonMaxIter"`
	NewtonTolerance   float64                       `yaml:"NewtonTolerance"`
	Greedy            bool                          `yaml:"Greedy"`
	GreedyThreshold   float64                       `yaml:"GreedyThreshold"`
	GreedyRelaxBounds bool                          `yaml:"GreedyRelaxBounds"`
	LineSearchMaxIter int                           `yaml:"LineSearchMaxIter"`
	Validate          bool                          `yaml:"Validate"`
	Lanes             bool                          `yaml:"Lanes"`     // Evaluate edges in groups of four
	ProcLimit         int                           `yaml:"ProcLimit"` // Zero uses every CPU
	Dimension         int                           `yaml:"Dimension"`
	Nodes             int                           `yaml:"Nodes"`
	Neighbors         int                           `yaml:"Neighbors"` // Edges per node in a generated graph
	Seed              int64                         `yaml:"Seed"`
	States            map[string]map[string]float64 `yaml:"States"` // First key is the state name, second is one of Rho, U, P
}

// NewInputParameters returns the defaults that a parsed file overrides
func NewInputParameters() (ip *InputParameters) {
	cfg := riemann.DefaultConfig()
	ip = &InputParameters{
		Title:             "Wave speed estimate",
		Gamma:             cfg.Gamma,
		Covolume:          cfg.Covolume,
		NewtonMaxIter:     cfg.NewtonMaxIter,
		NewtonTolerance:   cfg.NewtonTolerance,
		Greedy:            cfg.Greedy,
		GreedyThreshold:   cfg.GreedyThreshold,
		GreedyRelaxBounds: cfg.GreedyRelaxBounds,
		LineSearchMaxIter: cfg.LineSearchMaxIter,
		Validate:          cfg.Validate,
		Lanes:             true,
		Dimension:         2,
		Nodes:             1000,
		Neighbors:         6,
		Seed:              1,
	}
	return
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Config returns the estimator constants, checked
func (ip *InputParameters) Config() (cfg riemann.Config, err error) {
	cfg = riemann.Config{
		Gamma:             ip.Gamma,
		Covolume:          ip.Covolume,
		NewtonMaxIter:     ip.NewtonMaxIter,
		NewtonTolerance:   ip.NewtonTolerance,
		Greedy:            ip.Greedy,
		GreedyThreshold:   ip.GreedyThreshold,
		GreedyRelaxBounds: ip.GreedyRelaxBounds,
		LineSearchMaxIter: ip.LineSearchMaxIter,
		Validate:          ip.Validate,
	}
	err = cfg.Check()
	return
}

// State returns the named primitive state (rho, u, p)
func (ip *InputParameters) State(name string) (rho, u, p float64, err error) {
	var (
		s  map[string]float64
		ok bool
	)
	if s, ok = ip.States[name]; !ok {
		err = fmt.Errorf("no state named %q in input", name)
		return
	}
	for _, key := range []string{"Rho", "P"} {
		if _, ok = s[key]; !ok {
			err = fmt.Errorf("state %q is missing %s", name, key)
			return
		}
	}
	rho, u, p = s["Rho"], s["U"], s["P"]
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= Gamma\n", ip.Gamma)
	fmt.Printf("[%d]\t\t\t= Newton Max Iterations\n", ip.NewtonMaxIter)
	fmt.Printf("%8.2e\t\t= Newton Tolerance\n", ip.NewtonTolerance)
	fmt.Printf("[%v]\t\t\t= Greedy\n", ip.Greedy)
	fmt.Printf("[%v]\t\t\t= Lanes\n", ip.Lanes)
	fmt.Printf("[%d]\t\t\t= Dimension\n", ip.Dimension)
	fmt.Printf("[%d]\t\t\t= Nodes\n", ip.Nodes)
	keys := make([]string, len(ip.States))
	i := 0
	for k := range ip.States {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("States[%s] = %v\n", key, ip.States[key])
	}
}
