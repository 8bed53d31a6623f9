package models

import (
	"fmt"
	"strings"
)

// ParseVersion accepts the spellings used by CLIs and inventory files.
func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "v1":
		return V1, nil
	case "2", "2c", "v2", "v2c":
		return V2c, nil
	case "3", "v3":
		return V3, nil
	}
	return "", fmt.Errorf("unknown snmp version %q", s)
}

func ParseSecurityLevel(s string) (SecurityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "noauthnopriv":
		return NoAuthNoPriv, nil
	case "authnopriv":
		return AuthNoPriv, nil
	case "authpriv":
		return AuthPriv, nil
	}
	return "", fmt.Errorf("unknown security level %q", s)
}

func ParseAuthProtocol(s string) (AuthProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md5":
		return AuthMD5, nil
	case "sha", "sha1":
		return AuthSHA1, nil
	case "sha224":
		return AuthSHA224, nil
	case "sha256":
		return AuthSHA256, nil
	case "sha384":
		return AuthSHA384, nil
	case "sha512":
		return AuthSHA512, nil
	}
	return "", fmt.Errorf("unknown auth protocol %q", s)
}

func ParsePrivProtocol(s string) (PrivProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "des":
		return PrivDES, nil
	case "aes", "aes128":
		return PrivAES128, nil
	case "aes192":
		return PrivAES192, nil
	case "aes256":
		return PrivAES256, nil
	}
	return "", fmt.Errorf("unknown privacy protocol %q", s)
}
