package core

// Variable is a collection or environment variable.
type Variable struct {
	Key     string `json:"key" yaml:"key"`
	Value   string `json:"value" yaml:"value"`
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// IsEnabled treats a missing flag as enabled.
func (v Variable) IsEnabled() bool {
	return v.Enabled == nil || *v.Enabled
}

// Environment is a named set of variables.
type Environment struct {
	UID       string     `json:"uid"`
	Name      string     `json:"name"`
	Variables []Variable `json:"values"`
}

// MergeVariables layers sets of variables in order; later sets win. Disabled
// variables are skipped.
func MergeVariables(sets ...[]Variable) map[string]string {
	out := make(map[string]string)
	for _, set := range sets {
		for _, v := range set {
			if !v.IsEnabled() {
				continue
			}
			out[v.Key] = v.Value
		}
	}
	return out
}
