//go:build store_devmode && !store_prodmode

package store

import "testing"

func TestCompiledBuildHintDevelopment(t *testing.T) {
	if got := CompiledBuildHint(); got != BuildHintDevelopment {
		t.Fatalf("expected development build hint, got %s", got)
	}
	if !guardAvailable() {
		t.Fatalf("expected guard to be compiled in")
	}
}

func TestDevelopmentBuildUnderTestFollowsDevMode(t *testing.T) {
	for _, devMode := range []bool{true, false} {
		ops := NewOperations(nil, nil, Config{DevelopmentMode: devMode})
		want := VariantRaw
		if devMode {
			want = VariantGuarded
		}
		if got := VariantOf(ops.RootOperations()); got != want {
			t.Fatalf("devMode=%v: got %s want %s", devMode, got, want)
		}
	}
}
