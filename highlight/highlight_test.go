package highlight

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/treeview/diagram"
)

func testDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	d, err := diagram.Decode(strings.NewReader(`{
		"nodes": [
			{"id": 1}, {"id": 2}, {"id": 3},
			{"id": 10, "kind": "variantStart", "variant": "Warden"},
			{"id": 20, "kind": "variantStart", "variant": "Oracle"}
		],
		"connections": [{"a": 1, "b": 2}, {"a": 2, "b": 3}, {"a": 10, "b": 1}],
		"variants": [
			{"name": "Warden", "classId": 1, "variantId": 1},
			{"name": "Oracle", "classId": 1, "variantId": 2, "alternate": true},
			{"name": "Seer", "classId": 2, "variantId": 1}
		]
	}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return d
}

func TestResolve(t *testing.T) {
	d := testDiagram(t)
	s := Resolve(d, Activation{Nodes: []int{2, 1, 1, 99}, ClassID: 1, VariantID: 1})

	if !slices.Equal(s.Nodes, []int{1, 2}) {
		t.Errorf("Nodes = %v, want [1 2]", s.Nodes)
	}
	if !slices.Equal(s.Connections, []string{"c1-2"}) {
		t.Errorf("Connections = %v, want [c1-2]", s.Connections)
	}
	if !slices.Equal(s.Variants, []string{"Warden"}) {
		t.Errorf("Variants = %v, want [Warden]", s.Variants)
	}
	if !s.NodeActive(2) || s.NodeActive(3) {
		t.Error("NodeActive mismatch")
	}
	if !s.ConnectionActive(2, 1) || s.ConnectionActive(2, 3) {
		t.Error("ConnectionActive mismatch")
	}
}

func TestResolveAlternateVariant(t *testing.T) {
	d := testDiagram(t)
	s := Resolve(d, Activation{ClassID: 1, VariantID: 1, AlternateVariantID: 2})
	if !s.VariantVisible("Warden") || !s.VariantVisible("Oracle") || s.VariantVisible("Seer") {
		t.Errorf("Variants = %v, want Warden and Oracle", s.Variants)
	}

	s = Resolve(d, Activation{ClassID: 3})
	if len(s.Variants) != 0 {
		t.Errorf("Variants = %v for unknown class, want none", s.Variants)
	}
}

func TestStylesheet(t *testing.T) {
	d := testDiagram(t)
	s := Resolve(d, Activation{Nodes: []int{1, 2, 3}, ClassID: 1, VariantID: 1})
	css := Stylesheet(s, diagram.Colors{})

	for _, want := range []string{
		".variant.Warden { display: block !important; }",
		"#n1, #n2, #n3 { color: " + diagram.DefaultColors.NodeActive + "; }",
		"#c1-2, #c2-3 { color: " + diagram.DefaultColors.ConnectionActive + "; stroke-width: 35; }",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("stylesheet missing %q:\n%s", want, css)
		}
	}

	if got := Stylesheet(Set{}, diagram.DefaultColors); got != "" {
		t.Errorf("empty set stylesheet = %q", got)
	}
}

func TestParseActivation(t *testing.T) {
	a, err := ParseActivation([]byte(`{"nodes": [4, 5], "classId": 2, "variantId": 1}`))
	if err != nil {
		t.Fatalf("ParseActivation json: %v", err)
	}
	if !slices.Equal(a.Nodes, []int{4, 5}) || a.ClassID != 2 || a.VariantID != 1 {
		t.Errorf("activation = %+v", a)
	}

	a, err = ParseActivation([]byte("nodes: [7]\nclassId: 3\nalternateVariantId: 4\n"))
	if err != nil {
		t.Fatalf("ParseActivation yaml: %v", err)
	}
	if a.AlternateVariantID != 4 || a.ClassID != 3 {
		t.Errorf("activation = %+v", a)
	}

	if _, err := ParseActivation([]byte("nodes: {")); err == nil {
		t.Error("malformed activation accepted")
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activation.yaml")
	if err := os.WriteFile(path, []byte("nodes: [1]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	old := DebounceInterval
	DebounceInterval = 10 * time.Millisecond
	t.Cleanup(func() { DebounceInterval = old })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Activation, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(a Activation, err error) {
			if err == nil {
				got <- a
			}
		})
	}()

	// The watcher may not be registered yet; keep rewriting until a reload
	// with the new content arrives.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case a := <-got:
			if slices.Equal(a.Nodes, []int{1, 2}) {
				cancel()
				if err := <-done; err != nil {
					t.Errorf("Watch returned %v", err)
				}
				return
			}
		case <-tick.C:
			if err := os.WriteFile(path, []byte("nodes: [1, 2]\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
