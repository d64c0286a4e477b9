package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Storage struct {
		ContainerDir string `json:"container_dir"`
		KVDSN        string `json:"kv_dsn"`
	} `json:"storage,omitempty"`

	Signal struct {
		Dir string `json:"dir"`
	} `json:"signal,omitempty"`

	Adapter struct {
		RemoteURL      string   `json:"remote_url"`
		APIKey         string   `json:"api_key"`
		TokenFile      string   `json:"token_file"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		RefreshInterval Duration `json:"refresh_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Storage: Storage{
			ContainerDir: jsonCfg.Storage.ContainerDir,
			KVDSN:        jsonCfg.Storage.KVDSN,
		},
		Signal: Signal{
			Dir: jsonCfg.Signal.Dir,
		},
		Adapter: Adapter{
			RemoteURL:      jsonCfg.Adapter.RemoteURL,
			APIKey:         jsonCfg.Adapter.APIKey,
			TokenFile:      jsonCfg.Adapter.TokenFile,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			RefreshInterval: time.Duration(jsonCfg.Workers.RefreshInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
