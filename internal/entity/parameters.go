package entity

import "encoding/json"

// InstallationParameters maps an installation key (adjustTab, ...) to its enabled flag.
type InstallationParameters map[string]bool

var InstallationKeys = []string{
	"adjustTab",
	"filtersTab",
	"fineTuneTab",
	"resizeTab",
	"annotateTab",
	"watermarkTab",
}

func DefaultInstallationParameters() InstallationParameters {
	params := make(InstallationParameters, len(InstallationKeys))
	for _, key := range InstallationKeys {
		params[key] = true
	}
	return params
}

// Complete reports whether every installation key is present.
func (p InstallationParameters) Complete() bool {
	if p == nil {
		return false
	}
	for _, key := range InstallationKeys {
		if _, ok := p[key]; !ok {
			return false
		}
	}
	return true
}

func (p InstallationParameters) Clone() InstallationParameters {
	out := make(InstallationParameters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func IsInstallationKey(key string) bool {
	for _, k := range InstallationKeys {
		if k == key {
			return true
		}
	}
	return false
}

// AppState is the host's opaque target state, passed through the configure hook untouched.
type AppState json.RawMessage

func (s AppState) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

func (s *AppState) UnmarshalJSON(data []byte) error {
	*s = append((*s)[:0], data...)
	return nil
}

type ConfigureResult struct {
	Parameters  InstallationParameters `json:"parameters"`
	TargetState AppState               `json:"targetState"`
}
