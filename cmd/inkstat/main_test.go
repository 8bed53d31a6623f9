package main

import (
	"testing"
	"time"

	"github.com/inkstat/printer-snmp-poller/models"
	"github.com/inkstat/printer-snmp-poller/resolve"
)

func parseArgs(t *testing.T, args ...string) (resolve.Options, error) {
	t.Helper()
	var f cliFlags
	fs := newFlagSet(&f)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return overrides(fs, &f)
}

func TestOverridesOnlySetFlags(t *testing.T) {
	opts, err := parseArgs(t, "-c", "secret", "office")
	if err != nil {
		t.Fatal(err)
	}
	if opts.Community == nil || *opts.Community != "secret" {
		t.Errorf("community = %v", opts.Community)
	}
	// flags left at their defaults must stay nil so inventory values win
	if opts.Port != nil {
		t.Errorf("port = %v, want nil", opts.Port)
	}
	if opts.Version != nil {
		t.Errorf("version = %v, want nil", opts.Version)
	}
	if opts.Timeout != nil {
		t.Errorf("timeout = %v, want nil", opts.Timeout)
	}
}

func TestOverridesParsesEnums(t *testing.T) {
	opts, err := parseArgs(t,
		"-snmp-version", "v3", "-l", "authPriv", "-a", "sha256", "-x", "aes256",
		"-p", "1161", "-timeout", "2", "printer")
	if err != nil {
		t.Fatal(err)
	}
	if opts.Version == nil || *opts.Version != models.V3 {
		t.Errorf("version = %v", opts.Version)
	}
	if opts.SecurityLevel == nil || *opts.SecurityLevel != models.AuthPriv {
		t.Errorf("security level = %v", opts.SecurityLevel)
	}
	if opts.AuthProtocol == nil || *opts.AuthProtocol != models.AuthSHA256 {
		t.Errorf("auth protocol = %v", opts.AuthProtocol)
	}
	if opts.PrivProtocol == nil || *opts.PrivProtocol != models.PrivAES256 {
		t.Errorf("priv protocol = %v", opts.PrivProtocol)
	}
	if opts.Port == nil || *opts.Port != 1161 {
		t.Errorf("port = %v", opts.Port)
	}
	if opts.Timeout == nil || *opts.Timeout != 2*time.Second {
		t.Errorf("timeout = %v", opts.Timeout)
	}
}

func TestOverridesRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"port out of range", []string{"-p", "70000", "printer"}},
		{"unknown version", []string{"-snmp-version", "v9", "printer"}},
		{"unknown security level", []string{"-l", "maxSecurity", "printer"}},
		{"unknown auth protocol", []string{"-a", "sha3", "printer"}},
		{"unknown priv protocol", []string{"-x", "rc4", "printer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseArgs(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
