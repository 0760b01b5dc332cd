package config

import (
	"fmt"
	"os"

	gotoml "github.com/pelletier/go-toml/v2"
)

const templateHeader = `# grecpctl configuration
# protocols: observed (0x0101), documented (0xb7ea), any, or a numeric GRE protocol type
# payload_only: input lines are GRECP payloads without a GRE header
# strict: run required-attribute validation on every decoded message

`

// Template renders DefaultConfig as a commented TOML document.
func Template() (string, error) {
	body, err := gotoml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("render config template: %w", err)
	}
	return templateHeader + string(body), nil
}

func WriteTemplate(path string, overwrite bool) error {
	template, err := Template()
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}
