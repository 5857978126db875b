package safety

import (
	"strings"
	"testing"
	"time"
)

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		in   string
		leak string
	}{
		{"postgres://app:s3cret@db:5432/schools?sslmode=disable", "s3cret"},
		{"host=db user=app password=s3cret dbname=schools", "s3cret"},
	}
	for _, tt := range tests {
		out := RedactDSN(tt.in)
		if strings.Contains(out, tt.leak) {
			t.Fatalf("secret leaked in %q", out)
		}
		if !strings.Contains(out, "app") {
			t.Fatalf("user should be kept: %q", out)
		}
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := QuoteIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("unexpected quoting %s", got)
	}
}

func TestLimiterAllowsOncePerInterval(t *testing.T) {
	l := NewLimiter(10 * time.Second)
	now := time.Now()
	if !l.AllowAt("reload", now) {
		t.Fatalf("first call must be allowed")
	}
	if l.AllowAt("reload", now.Add(time.Second)) {
		t.Fatalf("second call within interval must be refused")
	}
	if !l.AllowAt("other", now.Add(time.Second)) {
		t.Fatalf("actions are limited independently")
	}
	if !l.AllowAt("reload", now.Add(11*time.Second)) {
		t.Fatalf("call after interval must be allowed")
	}
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(0)
	for i := 0; i < 3; i++ {
		if !l.Allow("reload") {
			t.Fatalf("zero interval must not limit")
		}
	}
}
