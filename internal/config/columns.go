package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// columnFile is the layout of a column map file:
//
//	columns:
//	  "Participant ID": participant_id
//	  "Shareholding": shares
type columnFile struct {
	Columns map[string]string `yaml:"columns"`
}

// LoadColumnMap reads a YAML column map file, expanding ${VAR} environment
// variables. An empty path yields the default CCASS map.
func LoadColumnMap(path string) (domain.ColumnMap, error) {
	if path == "" {
		return domain.DefaultColumnMap(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ColumnMap{}, fmt.Errorf("read column map: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var file columnFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return domain.ColumnMap{}, fmt.Errorf("parse column map yaml: %w", err)
	}

	m, err := domain.NewColumnMap(file.Columns)
	if err != nil {
		return domain.ColumnMap{}, fmt.Errorf("column map %s: %w", path, err)
	}
	return m, nil
}
