package popow_test

import (
	"testing"

	popowconfig "github.com/gtklocker/ergo/internal/config/popow"
)

func TestNewDefaults(t *testing.T) {
	cfg := popowconfig.New(nil)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	params := cfg.Params()
	if params.M != 30 || params.K != 30 {
		t.Fatalf("got m=%d k=%d, want 30/30", params.M, params.K)
	}
}

func TestValidateRejectsZeroK(t *testing.T) {
	cfg := popowconfig.New(&popowconfig.Options{M: 5, K: 0})
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for k=0")
	}
}
