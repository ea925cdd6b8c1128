package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
)

func LoadRulePack(path string) (domain.RulePackDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RulePackDefinition{}, err
	}

	var pack domain.RulePackDefinition
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return domain.RulePackDefinition{}, err
	}
	return pack, nil
}

// LoadRecord reads a YAML document into a nested record.
func LoadRecord(data []byte) (domain.Record, error) {
	var rec domain.Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	if rec == nil {
		rec = domain.Record{}
	}
	return rec, nil
}
