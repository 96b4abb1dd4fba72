package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overlayFile is the YAML shape of an alias overlay:
//
//	aliases:
//	  memory:
//	    - "Memory Index"
type overlayFile struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// LoadOverlay merges extra aliases from a YAML file into the registry.
// A missing file is fine; an alias for an unknown key is a startup error
// so typos surface immediately rather than as silently skipped domains.
func (r *Registry) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var of overlayFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return fmt.Errorf("parsing alias overlay %s: %w", path, err)
	}

	for key, aliases := range of.Aliases {
		idx, ok := r.byKey[key]
		if !ok {
			return fmt.Errorf("alias overlay %s: unknown domain key %q", path, key)
		}
		for _, a := range aliases {
			if r.specs[idx].HasLabel(a) {
				continue
			}
			r.specs[idx].Labels = append(r.specs[idx].Labels, a)
			r.byLabel[a] = append(r.byLabel[a], idx)
		}
	}
	return nil
}
