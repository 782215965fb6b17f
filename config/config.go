package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/16205/pmereporter/core/document"
	"github.com/16205/pmereporter/core/ingest"
	"github.com/16205/pmereporter/core/metrics"
	"github.com/16205/pmereporter/infra/typeset"
)

type Config struct {
	Ingest   ingest.Config   `json:"ingest"`
	Document document.Config `json:"document"`
	Typeset  typeset.Config  `json:"typeset"`
	Metrics  metrics.Config  `json:"metrics"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PME_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pme_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Ingest.SetDefaults()
	cfg.Document.SetDefaults()
	cfg.Typeset.SetDefaults()
	if err := cfg.Ingest.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Document.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
