package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"data_file": "tasks.json",
		"backend":   "json",
		"theme":     "light",
		"reminder": map[string]interface{}{
			"interval": "30s",
			"initial":  "1h",
			"repeat":   "24h",
			"title":    "Task reminder",
			"timeout":  "5s",
			"buffer":   64,
		},
		"notifications": map[string]interface{}{
			"desktop": true,
		},
		"log": map[string]interface{}{
			"level":        "info",
			"format":       "text",
			"file":         "",
			"max_size_mb":  10,
			"max_backups":  3,
			"max_age_days": 28,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}
