package config

import (
	"fmt"
	"sort"
)

// Built-in defaults, used when neither flags, environment nor the file
// provide a value.
const (
	DefaultServer = "127.0.0.1:9180"
	DefaultOutput = "table"
	DefaultSocket = "/var/run/printlink/printlink.sock"
)

// CLIConfig is the configuration for printlink-cli.
type CLIConfig struct {
	Server string `json:"server,omitempty" yaml:"server,omitempty"`
	Token  string `json:"token,omitempty" yaml:"token,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"` // table, json, yaml
	Socket string `json:"socket,omitempty" yaml:"socket,omitempty"`

	// CAFile is an extra PEM bundle trusted for https:// servers.
	CAFile string `json:"ca_file,omitempty" yaml:"ca_file,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: DefaultServer,
		Output: DefaultOutput,
		Socket: DefaultSocket,
	}
}

// field returns a pointer to the named setting.
func (c *CLIConfig) field(key string) (*string, error) {
	switch key {
	case "server":
		return &c.Server, nil
	case "token":
		return &c.Token, nil
	case "output":
		return &c.Output, nil
	case "socket":
		return &c.Socket, nil
	case "ca_file":
		return &c.CAFile, nil
	default:
		return nil, fmt.Errorf("unknown config key %q (valid: %v)", key, Keys())
	}
}

// Get returns the value of a setting.
func (c *CLIConfig) Get(key string) (string, error) {
	p, err := c.field(key)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set changes a setting. An empty value clears it.
func (c *CLIConfig) Set(key, value string) error {
	p, err := c.field(key)
	if err != nil {
		return err
	}
	if key == "output" && value != "" {
		switch value {
		case "table", "json", "yaml":
		default:
			return fmt.Errorf("invalid output %q (want table, json or yaml)", value)
		}
	}
	*p = value
	return nil
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := []string{"server", "token", "output", "socket", "ca_file"}
	sort.Strings(keys)
	return keys
}
