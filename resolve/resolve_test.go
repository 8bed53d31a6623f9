package resolve_test

import (
	"errors"
	"testing"
	"time"

	"github.com/inkstat/printer-snmp-poller/inventory"
	"github.com/inkstat/printer-snmp-poller/models"
	"github.com/inkstat/printer-snmp-poller/resolve"
)

func strPtr(s string) *string { return &s }

func portPtr(p uint16) *uint16 { return &p }

func verPtr(v models.Version) *models.Version { return &v }

func lvlPtr(l models.SecurityLevel) *models.SecurityLevel { return &l }

func kindOf(t *testing.T, err error) resolve.Kind {
	t.Helper()
	var rerr *resolve.ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("error %v is not a ResolutionError", err)
	}
	return rerr.Kind
}

func TestResolveRawHostDefaults(t *testing.T) {
	spec, err := resolve.Resolve("192.168.1.50", nil, resolve.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Host != "192.168.1.50" {
		t.Errorf("host = %q", spec.Host)
	}
	if spec.Port != 161 {
		t.Errorf("port = %d, want 161", spec.Port)
	}
	if spec.Version != models.V2c {
		t.Errorf("version = %q, want v2c", spec.Version)
	}
	if spec.Community != "public" {
		t.Errorf("community = %q, want public", spec.Community)
	}
	if spec.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", spec.Timeout)
	}
}

func TestResolveUnknownAlias(t *testing.T) {
	// not a valid hostname, and no inventory entry matched
	_, err := resolve.Resolve("office printer", nil, resolve.Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if k := kindOf(t, err); k != resolve.UnknownAlias {
		t.Errorf("kind = %v, want UnknownAlias", k)
	}
}

func TestResolveHostForms(t *testing.T) {
	tests := []struct {
		host string
		ok   bool
	}{
		{"10.0.0.5", true},
		{"fe80::1", true},
		{"printer.office.example.com", true},
		{"printer-1", true},
		{"-bad", false},
		{"bad-", false},
		{"has space", false},
		{"", false},
	}
	for _, tt := range tests {
		_, err := resolve.Resolve(tt.host, nil, resolve.Options{})
		if (err == nil) != tt.ok {
			t.Errorf("Resolve(%q) err = %v, want ok=%v", tt.host, err, tt.ok)
		}
	}
}

func TestResolveEntryThenOverrides(t *testing.T) {
	entry := &inventory.Entry{
		Alias:     "office",
		Host:      "192.168.1.50",
		Port:      portPtr(1161),
		Community: strPtr("internal"),
	}

	// stored values apply when no flag was given
	spec, err := resolve.Resolve("office", entry, resolve.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Host != "192.168.1.50" || spec.Port != 1161 || spec.Community != "internal" {
		t.Errorf("entry values not applied: %+v", spec)
	}

	// explicit overrides win over stored values
	spec, err = resolve.Resolve("office", entry, resolve.Options{Community: strPtr("secret")})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Community != "secret" {
		t.Errorf("community = %q, want explicit override to win", spec.Community)
	}
	if spec.Port != 1161 {
		t.Errorf("port = %d, untouched stored value must survive", spec.Port)
	}
}

func TestResolveBadEntryValue(t *testing.T) {
	entry := &inventory.Entry{
		Alias:   "office",
		Host:    "192.168.1.50",
		Version: strPtr("v9"),
	}
	_, err := resolve.Resolve("office", entry, resolve.Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if k := kindOf(t, err); k != resolve.BadValue {
		t.Errorf("kind = %v, want BadValue", k)
	}
}

func TestResolveV3Credentials(t *testing.T) {
	v3 := verPtr(models.V3)

	tests := []struct {
		name string
		opts resolve.Options
		ok   bool
	}{
		{
			name: "missing username",
			opts: resolve.Options{Version: v3, SecurityLevel: lvlPtr(models.NoAuthNoPriv)},
		},
		{
			name: "noAuthNoPriv needs only a username",
			opts: resolve.Options{Version: v3, Username: strPtr("admin"),
				SecurityLevel: lvlPtr(models.NoAuthNoPriv)},
			ok: true,
		},
		{
			name: "authNoPriv without auth password",
			opts: resolve.Options{Version: v3, Username: strPtr("admin"),
				SecurityLevel: lvlPtr(models.AuthNoPriv)},
		},
		{
			name: "authNoPriv complete",
			opts: resolve.Options{Version: v3, Username: strPtr("admin"),
				SecurityLevel: lvlPtr(models.AuthNoPriv), AuthPassword: strPtr("pw")},
			ok: true,
		},
		{
			name: "authPriv without priv password",
			opts: resolve.Options{Version: v3, Username: strPtr("admin"),
				SecurityLevel: lvlPtr(models.AuthPriv), AuthPassword: strPtr("pw")},
		},
		{
			name: "authPriv complete",
			opts: resolve.Options{Version: v3, Username: strPtr("admin"),
				SecurityLevel: lvlPtr(models.AuthPriv),
				AuthPassword:  strPtr("pw"), PrivPassword: strPtr("pw2")},
			ok: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve.Resolve("10.0.0.5", nil, tt.opts)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if k := kindOf(t, err); k != resolve.IncompleteV3Credentials {
				t.Errorf("kind = %v, want IncompleteV3Credentials", k)
			}
		})
	}
}
