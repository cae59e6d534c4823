package enrich

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ProviderConfig describes one identity provider contract: which response
// adapter to use and where to send requests.
type ProviderConfig struct {
	Name    string `yaml:"name"`
	Adapter string `yaml:"adapter"`
	BaseURL string `yaml:"base_url"`
}

// ProvidersFile is the optional providers.yaml listing the known provider
// contracts. It lets operators add a provider revision without a rebuild.
type ProvidersFile struct {
	Default   string           `yaml:"default"`
	Providers []ProviderConfig `yaml:"providers"`
}

// LoadProviders reads provider contracts from a YAML file.
func LoadProviders(path string) (*ProvidersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: read providers %s", path)
	}

	var pf ProvidersFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, eris.Wrap(err, "enrich: parse providers")
	}

	for _, p := range pf.Providers {
		if p.Name == "" {
			return nil, eris.New("enrich: provider with empty name")
		}
	}
	return &pf, nil
}

// Select returns the named provider, or the file's default when name is
// empty.
func (pf *ProvidersFile) Select(name string) (*ProviderConfig, error) {
	if name == "" {
		name = pf.Default
	}
	for i := range pf.Providers {
		if pf.Providers[i].Name == name {
			return &pf.Providers[i], nil
		}
	}
	return nil, eris.Errorf("enrich: provider %q not configured", name)
}
