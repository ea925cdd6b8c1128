package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
	"github.com/Victor-armando18/vehicle-admin/internal/infrastructure/yaml"
)

// FileRuleLoader reads guard packs named <version>_guards.json or
// <version>_guards.yaml from Dir.
type FileRuleLoader struct {
	Dir string
}

func NewFileRuleLoader(dir string) *FileRuleLoader {
	return &FileRuleLoader{Dir: dir}
}

func (l *FileRuleLoader) Load(ctx context.Context, version string) (*domain.RulePackDefinition, error) {
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(l.Dir, version+"_guards"+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadRuleFile(path)
		}
	}
	return nil, fmt.Errorf("no guard pack %s in %s: %w", version, l.Dir, os.ErrNotExist)
}

// LoadRuleFile reads a guard pack, choosing the decoder from the extension.
func LoadRuleFile(path string) (*domain.RulePackDefinition, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		def, err := yaml.LoadRulePack(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule file %s: %w", path, err)
		}
		return &def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	var def domain.RulePackDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule definition: %w", err)
	}
	return &def, nil
}
