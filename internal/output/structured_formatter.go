package output

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/mortgo/internal/domain"
)

// JSONFormatter emits the full report as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.MortgageReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// YAMLFormatter emits the full report as YAML
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(report *domain.MortgageReport) ([]byte, error) {
	return yaml.Marshal(report)
}
