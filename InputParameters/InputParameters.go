package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// GaussianSpec describes one bump of a gaussian mixture field.
type GaussianSpec struct {
	X0        float64 `yaml:"X0"`
	Y0        float64 `yaml:"Y0"`
	Amplitude float64 `yaml:"Amplitude"`
	Spread    float64 `yaml:"Spread"`
}

// WindSpec selects a velocity component profile.
type WindSpec struct {
	Type      string  `yaml:"Type"` // "constant" or "sinusoid"
	Amplitude float64 `yaml:"Amplitude"`
	Periods   float64 `yaml:"Periods"` // sinusoid only
}

// Parameters obtained from the YAML input file
type InputParametersRCD struct {
	Title       string         `yaml:"Title"`
	GridOrder   int            `yaml:"GridOrder"`
	Mu          float64        `yaml:"Mu"`
	Dt          float64        `yaml:"Dt"`
	NumSteps    int            `yaml:"NumSteps"`
	Fuel        []GaussianSpec `yaml:"Fuel"`        // reaction-rate mixture
	InitialFire []GaussianSpec `yaml:"InitialFire"` // initial-condition mixture
	WindX       WindSpec       `yaml:"WindX"`
	WindY       WindSpec       `yaml:"WindY"`
}

func (ip *InputParametersRCD) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersRCD) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t= Grid Order\n", ip.GridOrder)
	fmt.Printf("%8.5f\t\t= Mu\n", ip.Mu)
	fmt.Printf("%8.5f\t\t= Dt\n", ip.Dt)
	fmt.Printf("[%d]\t\t\t= NumSteps\n", ip.NumSteps)
	for i, g := range ip.Fuel {
		fmt.Printf("Fuel[%d] = %+v\n", i, g)
	}
	for i, g := range ip.InitialFire {
		fmt.Printf("InitialFire[%d] = %+v\n", i, g)
	}
	fmt.Printf("WindX = %+v\n", ip.WindX)
	fmt.Printf("WindY = %+v\n", ip.WindY)
}
