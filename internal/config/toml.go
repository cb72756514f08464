package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// TOML is a koanf parser for TOML config files.
type TOML struct{}

func TOMLParser() *TOML {
	return &TOML{}
}

func (p *TOML) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *TOML) Marshal(o map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
