// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Sensitive data redaction for DSN and connection strings.

package safety

import (
	"net/url"
	"strings"
)

// RedactDSN masks the password of a URL-style DSN and of key=value DSNs.
func RedactDSN(dsn string) string {
	if !strings.Contains(dsn, "://") {
		return redactKeyValue(dsn)
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		if _, hasPwd := u.User.Password(); hasPwd {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}

func redactKeyValue(dsn string) string {
	parts := strings.Fields(dsn)
	for i, p := range parts {
		k, _, ok := strings.Cut(p, "=")
		if ok && strings.EqualFold(k, "password") {
			parts[i] = k + "=***"
		}
	}
	return strings.Join(parts, " ")
}

// QuoteIdent performs a minimal identifier quoting for SQL identifiers.
// For safety, it doubles internal quotes.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
