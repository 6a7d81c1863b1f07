// Package vault resolves credentials from environment variables.
//
// An EnvVault has a common namespace (e.g. "GITLAB_") and a secrets
// namespace (e.g. "GITLAB_SECRET_"). A key such as "PROD_TOKEN" resolves to
// GITLAB_PROD_TOKEN; secret keys check GITLAB_SECRET_PROD_TOKEN first.
// Secret values never render through fmt or slog.
package vault

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/spf13/viper"
)

// Redacted is how secret values are rendered.
const Redacted = "[REDACTED]"

// Attr is one resolved vault entry.
type Attr struct {
	// EnvVar is the variable the value came from, or the primary candidate
	// when nothing was set.
	EnvVar string
	Secret bool
	value  string
}

// NewAttr builds an Attr directly, for callers that already hold the value.
func NewAttr(envVar, value string, secret bool) Attr {
	return Attr{EnvVar: envVar, Secret: secret, value: value}
}

// Value returns the raw value. Callers must not log it when Secret is set.
func (a Attr) Value() string {
	return a.value
}

// IsSet reports whether a non-empty value was resolved.
func (a Attr) IsSet() bool {
	return a.value != ""
}

// String renders the attr for humans, hiding secret values.
func (a Attr) String() string {
	if a.Secret {
		return a.EnvVar + "=" + Redacted
	}
	return a.EnvVar + "=" + a.value
}

// GoString keeps %#v from printing the secret field.
func (a Attr) GoString() string {
	return fmt.Sprintf("vault.Attr{EnvVar:%q, Secret:%t}", a.EnvVar, a.Secret)
}

// LogValue implements slog.LogValuer.
func (a Attr) LogValue() slog.Value {
	if a.Secret {
		return slog.StringValue(Redacted)
	}
	return slog.StringValue(a.value)
}

// DefineOptions controls how a key is resolved.
type DefineOptions struct {
	Default string
	Secret  bool
}

// EnvVault looks keys up in the process environment through viper.
type EnvVault struct {
	common  string
	secrets string
	v       *viper.Viper
}

// NewEnvVault creates a vault over the given namespaces. Either may be empty.
func NewEnvVault(commonNamespace, secretsNamespace string) *EnvVault {
	v := viper.New()
	v.AutomaticEnv()
	return &EnvVault{common: commonNamespace, secrets: secretsNamespace, v: v}
}

// Define resolves key. Secret keys prefer the secrets namespace; the default
// applies when no variable is set.
func (e *EnvVault) Define(key string, opts DefineOptions) Attr {
	key = EnvKey(key)
	candidates := []string{e.common + key}
	if opts.Secret && e.secrets != "" {
		candidates = []string{e.secrets + key, e.common + key}
	}
	for _, name := range candidates {
		if val := e.v.GetString(name); val != "" {
			return Attr{EnvVar: strings.ToUpper(name), Secret: opts.Secret, value: val}
		}
	}
	return Attr{EnvVar: strings.ToUpper(candidates[0]), Secret: opts.Secret, value: opts.Default}
}

// EnvKey upper-cases key and replaces anything that is not a letter, digit
// or underscore, so host IDs like "gitlab.acme-corp" become GITLAB_ACME_CORP.
func EnvKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '_', unicode.IsDigit(r):
			return r
		case unicode.IsLetter(r):
			return unicode.ToUpper(r)
		default:
			return '_'
		}
	}, key)
}
