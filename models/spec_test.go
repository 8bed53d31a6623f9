package models_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/inkstat/printer-snmp-poller/models"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want models.Version
		ok   bool
	}{
		{"v1", models.V1, true},
		{"1", models.V1, true},
		{"v2c", models.V2c, true},
		{"2c", models.V2c, true},
		{"v3", models.V3, true},
		{"3", models.V3, true},
		{"v4", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := models.ParseVersion(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseVersion(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSecurityLevel(t *testing.T) {
	for in, want := range map[string]models.SecurityLevel{
		"noAuthNoPriv": models.NoAuthNoPriv,
		"noauthnopriv": models.NoAuthNoPriv,
		"authNoPriv":   models.AuthNoPriv,
		"authPriv":     models.AuthPriv,
		"authpriv":     models.AuthPriv,
	} {
		got, err := models.ParseSecurityLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseSecurityLevel(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := models.ParseSecurityLevel("maxSecurity"); err == nil {
		t.Error("expected error")
	}
}

func TestParseProtocols(t *testing.T) {
	for _, in := range []string{"md5", "MD5", "sha1", "sha224", "sha256", "sha384", "sha512"} {
		if _, err := models.ParseAuthProtocol(in); err != nil {
			t.Errorf("ParseAuthProtocol(%q): %v", in, err)
		}
	}
	if _, err := models.ParseAuthProtocol("sha3"); err == nil {
		t.Error("expected error")
	}

	for _, in := range []string{"des", "DES", "aes", "aes128", "aes192", "aes256"} {
		if _, err := models.ParsePrivProtocol(in); err != nil {
			t.Errorf("ParsePrivProtocol(%q): %v", in, err)
		}
	}
	if _, err := models.ParsePrivProtocol("rc4"); err == nil {
		t.Error("expected error")
	}
}

func TestRetryPolicy(t *testing.T) {
	p := models.RetryPolicy{Timeout: 2 * time.Second, Retries: 3}
	if got := p.Attempts(); got != 4 {
		t.Errorf("Attempts = %d, want 4", got)
	}
	if got := p.Bound(); got != 8*time.Second {
		t.Errorf("Bound = %v, want 8s", got)
	}

	zero := models.RetryPolicy{Timeout: time.Second}
	if got := zero.Attempts(); got != 1 {
		t.Errorf("Attempts with no retries = %d, want 1", got)
	}
}

func TestConnectionSpecHidesSecrets(t *testing.T) {
	spec := models.ConnectionSpec{
		Host:         "10.0.0.5",
		Community:    "s3cret",
		AuthPassword: "authpw",
		PrivPassword: "privpw",
	}
	out, err := json.Marshal(spec)
	if err != nil {
		t.Fatal(err)
	}
	for _, secret := range []string{"s3cret", "authpw", "privpw"} {
		if strings.Contains(string(out), secret) {
			t.Errorf("marshalled spec leaks %q: %s", secret, out)
		}
	}
}
