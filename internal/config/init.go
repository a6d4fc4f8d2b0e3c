package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

const initHeader = `# codedoc configuration.
# Values may reference environment variables as ${NAME}; .env and .env.local
# in the working directory are loaded first.
`

// Example returns the configuration written by Init.
func Example() *Config {
	yes := true
	retries := DefaultMaxRetries
	return &Config{
		Version: CurrentVersion,
		Defaults: DefaultsConfig{
			MaxFileSize:     10 * 1024 * 1024,
			MaxLines:        0,
			Indent:          DefaultIndent,
			IncludeMetadata: &yes,
			IncludeStats:    &yes,
			IncludeTOC:      &yes,
			LineNumbers:     &yes,
			AutoTags:        true,
			Recursive:       true,
			Exclude:         []string{"**/*.md", "**/node_modules/**", "**/vendor/**"},
			Workers:         DefaultWorkers,
		},
		Formats: map[string]FormatConfig{
			"slp": {
				Name:        "Pipeline",
				Category:    "structured-data",
				Highlight:   "json",
				Description: "Pipeline definition",
			},
		},
		Output: OutputConfig{
			Directory:   "docs/reference",
			Incremental: true,
			StateDB:     DefaultStateDB,
		},
		Publish: PublishConfig{
			NATSURL: "${CODEDOC_NATS_URL}",
			Subject: DefaultSubject,
			Timeout: DefaultPublishTO,
			Retry: RetryConfig{
				Backoff:    RetryBackoffExponential,
				Initial:    DefaultRetryInitial,
				Max:        DefaultRetryMax,
				MaxRetries: &retries,
			},
		},
		Watch: WatchConfig{Debounce: DefaultDebounce},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("path", path).Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create config directory").Build()
		}
	}
	if err := os.WriteFile(path, append([]byte(initHeader), data...), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).Build()
	}
	return nil
}
