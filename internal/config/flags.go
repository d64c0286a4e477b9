package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// ParseFlags parses the configuration flags from args and returns the
// positional arguments that follow them (a subcommand and its own flags).
//
// Flags:
//
//	-container shared container directory
//	-kv-dsn key-value store SQLite path
//	-signal-dir beacon directory
//	-remote-url remote backend base URL
//	-api-key remote backend API key
//	-token-file file holding the remote access token
//	-request-timeout remote request timeout (e.g., "5s")
//	-refresh-interval widget refresh interval (e.g., "5m")
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, []string, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		containerDir    string
		kvDSN           string
		signalDir       string
		remoteURL       string
		apiKey          string
		tokenFile       string
		jsonConfigPath  string
		requestTimeout  time.Duration
		refreshInterval time.Duration
	)

	fs.StringVar(&containerDir, "container", "", "Shared container directory")
	fs.StringVar(&kvDSN, "kv-dsn", "", "Key-value store SQLite path")
	fs.StringVar(&signalDir, "signal-dir", "", "Beacon directory")
	fs.StringVar(&remoteURL, "remote-url", "", "Remote backend base URL")
	fs.StringVar(&apiKey, "api-key", "", "Remote backend API key")
	fs.StringVar(&tokenFile, "token-file", "", "Remote access token file")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Remote request timeout (e.g., 5s)")
	fs.DurationVar(&refreshInterval, "refresh-interval", 0, "Widget refresh interval (e.g., 5m)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Storage: Storage{
			ContainerDir: containerDir,
			KVDSN:        kvDSN,
		},
		Signal: Signal{
			Dir: signalDir,
		},
		Adapter: Adapter{
			RemoteURL:      remoteURL,
			APIKey:         apiKey,
			TokenFile:      tokenFile,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			RefreshInterval: refreshInterval,
		},
		JSONFilePath: jsonConfigPath,
	}, fs.Args(), nil
}
