package config

import (
	"fmt"
	"os"
)

func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `# zwalletctl configuration. ZWALLETCTL_<KEY> environment variables override these values.
network = "main"
default_from = "zwl"
default_to = "portable"
max_sequence_len = 33554432
strict_hd_index = false
log_level = "info"
`
