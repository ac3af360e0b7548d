package registry

import (
	"context"
	"strings"
	"testing"

	"game-host/internal/hostable"
)

type nopRunner struct{}

func (nopRunner) Run(context.Context, string, ...string) ([]byte, error) { return nil, nil }

type nopSessions struct{}

func (nopSessions) Sessions(context.Context) (string, error) { return "", nil }

func TestBuild_LookupReturnsServerWithSamePath(t *testing.T) {
	reg, err := Build([]Spec{
		{Path: "minecraft", Kind: KindMinecraft},
		{Path: "arma", Kind: "bash"},
		{Path: "valheim"},
	}, nopRunner{}, nopSessions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, p := range reg.Paths() {
		s, ok := reg.Lookup(p)
		if !ok || s.Path() != p {
			t.Fatalf("Lookup(%q) ok=%v", p, ok)
		}
	}
	if n := len(reg.Paths()); n != 3 {
		t.Fatalf("len=%d", n)
	}
	if s, _ := reg.Lookup("minecraft"); s == nil {
		t.Fatalf("minecraft missing")
	} else if _, ok := s.(*hostable.MinecraftServer); !ok {
		t.Fatalf("minecraft kind=%T", s)
	}
	if s, _ := reg.Lookup("arma"); s == nil {
		t.Fatalf("arma missing")
	} else if _, ok := s.(*hostable.BashServer); !ok {
		t.Fatalf("arma kind=%T", s)
	}
}

func TestLookup_ExactMatchOnly(t *testing.T) {
	reg, err := Build([]Spec{{Path: "minecraft"}}, nopRunner{}, nopSessions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, p := range []string{"mine", "minecraft2", "Minecraft", ""} {
		if _, ok := reg.Lookup(p); ok {
			t.Fatalf("Lookup(%q) should miss", p)
		}
	}
}

func TestBuild_Rejects(t *testing.T) {
	cases := map[string][]Spec{
		"duplicate": {{Path: "arma"}, {Path: "arma", Kind: KindMinecraft}},
		"empty":     {{Path: ""}},
		"slash":     {{Path: "a/b"}},
		"reserved":  {{Path: "file"}},
		"kind":      {{Path: "arma", Kind: "docker"}},
	}
	for name, specs := range cases {
		if _, err := Build(specs, nopRunner{}, nopSessions{}); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestPaths_Sorted(t *testing.T) {
	reg, err := Build([]Spec{{Path: "minecraft"}, {Path: "arma"}}, nopRunner{}, nopSessions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := strings.Join(reg.Paths(), ","); got != "arma,minecraft" {
		t.Fatalf("paths=%q", got)
	}
}
