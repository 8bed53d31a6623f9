// Package inventory stores named printer targets and their connection
// parameters. The poller core never touches the backing file or database
// itself; it consumes entries through the Store interface.
package inventory

import "context"

// Entry is one saved printer. Pointer fields distinguish "not stored" from
// an explicit empty value so the resolver can layer CLI overrides on top.
type Entry struct {
	Alias string  `db:"alias" toml:"alias"`
	Host  string  `db:"host" toml:"host"`
	Port  *uint16 `db:"port" toml:"port"`

	Version   *string `db:"snmp_version" toml:"snmp_version"`
	Community *string `db:"community" toml:"community"`

	Username      *string `db:"username" toml:"username"`
	SecurityLevel *string `db:"security_level" toml:"security_level"`
	AuthProtocol  *string `db:"auth_protocol" toml:"auth_protocol"`
	AuthPassword  *string `db:"auth_password" toml:"auth_password"`
	PrivProtocol  *string `db:"priv_protocol" toml:"priv_protocol"`
	PrivPassword  *string `db:"priv_password" toml:"priv_password"`
	ContextName   *string `db:"context_name" toml:"context_name"`

	// TimeoutSeconds overrides the default per-request timeout.
	TimeoutSeconds *int `db:"timeout_seconds" toml:"timeout_seconds"`
}

// Store lists saved printers and finds them by alias.
type Store interface {
	// Lookup returns the entry for alias, or nil when the alias is not
	// saved. A nil entry with nil error is a clean miss, not a failure.
	Lookup(ctx context.Context, alias string) (*Entry, error)

	// List returns every saved printer, for fleet polling.
	List(ctx context.Context) ([]Entry, error)
}
