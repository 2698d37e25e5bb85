package config

import (
	"github.com/specialistvlad/porterlens/internal/debugger"
)

// Launch is one debug launch configuration.
type Launch struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type" validate:"omitempty,oneof=porter"`
	Request     string `yaml:"request" validate:"omitempty,oneof=launch"`
	PorterFile  string `yaml:"porter-file" validate:"required"`
	Action      string `yaml:"action" validate:"omitempty,actionname"`
	StopOnEntry *bool  `yaml:"stopOnEntry"`

	InstallInputs InstallInputs `yaml:"installInputs"`
}

// InstallInputs are the values bound for the simulated run.
type InstallInputs struct {
	Parameters    map[string]string `yaml:"parameters" validate:"dive,keys,required,endkeys"`
	CredentialSet string            `yaml:"credentialSet"`
	// Outputs simulate values steps would have produced.
	Outputs map[string]string `yaml:"outputs" validate:"dive,keys,required,endkeys"`
}

// ShouldStopOnEntry defaults to true, as an interactive launch does.
func (l *Launch) ShouldStopOnEntry() bool {
	return l.StopOnEntry == nil || *l.StopOnEntry
}

// Inputs converts the launch inputs for the runtime.
func (l *Launch) Inputs() debugger.Inputs {
	return debugger.Inputs{
		Action:        l.Action,
		Parameters:    l.InstallInputs.Parameters,
		CredentialSet: l.InstallInputs.CredentialSet,
		Outputs:       l.InstallInputs.Outputs,
	}
}
