// Package file implements the TOML-backed inventory: one [[printers]] block
// per saved target, loaded whole at startup and shared read-only.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/inkstat/printer-snmp-poller/inventory"
	"go.uber.org/zap"
)

type document struct {
	Printers []inventory.Entry `toml:"printers"`
}

type Store struct {
	entries []inventory.Entry
	logger  *zap.Logger
}

// Open reads the inventory file at path. A missing file is an empty
// inventory, not an error, so the tool works out of the box against raw
// hosts.
func Open(path string, logger *zap.Logger) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Store{logger: logger}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("inventory %s: %w", path, err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("inventory %s: %w", path, err)
	}
	for i, e := range doc.Printers {
		if e.Alias == "" || e.Host == "" {
			return nil, fmt.Errorf("inventory %s: printer %d needs both alias and host", path, i+1)
		}
	}

	logger.Debug("inventory loaded", zap.String("path", path), zap.Int("printers", len(doc.Printers)))
	return &Store{entries: doc.Printers, logger: logger}, nil
}

func (s *Store) Lookup(_ context.Context, alias string) (*inventory.Entry, error) {
	for i := range s.entries {
		if s.entries[i].Alias == alias {
			e := s.entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (s *Store) List(_ context.Context) ([]inventory.Entry, error) {
	out := make([]inventory.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

const template = `# Printer inventory.
# Each [[printers]] block saves the connection parameters for one target,
# reachable by alias: inkstat office

[[printers]]
alias = "office"
host = "192.168.1.50"
community = "public"

[[printers]]
alias = "hr-secure"
host = "10.0.0.5"
snmp_version = "v3"
username = "admin"
security_level = "authPriv"
auth_protocol = "sha1"
auth_password = "change_me"
priv_protocol = "aes128"
priv_password = "change_me"
`

// WriteTemplate creates a starter inventory file. It refuses to overwrite
// an existing one.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("inventory already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

// DefaultPath places the inventory under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "inkstat.toml"
	}
	return filepath.Join(dir, "inkstat", "inkstat.toml")
}
