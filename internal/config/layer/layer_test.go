package layer

import "testing"

func TestManagerMergePriority(t *testing.T) {
	m := NewManager()

	m.AddLayer(NewLayer("env", SourceEnv, map[string]any{
		"trim": map[string]any{"preserve-cursor": false},
	}))
	m.AddLayer(NewLayer("defaults", SourceBuiltin, map[string]any{
		"trim": map[string]any{
			"preserve-cursor":            true,
			"remove-trailing-whitespace": true,
		},
		"logging": map[string]any{"level": "info"},
	}))
	m.AddLayer(NewLayer("user", SourceUser, map[string]any{
		"logging": map[string]any{"level": "debug"},
	}))

	if got := m.Names(); len(got) != 3 || got[0] != "defaults" || got[2] != "env" {
		t.Fatalf("unexpected layer order %v", got)
	}

	merged := m.Merge()
	tests := []struct {
		path string
		want any
	}{
		{"trim.preserve-cursor", false},
		{"trim.remove-trailing-whitespace", true},
		{"logging.level", "debug"},
	}
	for _, tt := range tests {
		got, ok := GetByPath(merged, tt.path)
		if !ok || got != tt.want {
			t.Errorf("%s: expected %v, got %v (found=%v)", tt.path, tt.want, got, ok)
		}
	}

	val, l, ok := m.Get("logging.level")
	if !ok || val != "debug" || l.Name != "user" {
		t.Errorf("Get should report the user layer, got %v from %v", val, l)
	}
}

func TestManagerMergeReturnsCopy(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayer("defaults", SourceBuiltin, map[string]any{
		"trim": map[string]any{"preserve-cursor": true},
	}))

	merged := m.Merge()
	SetByPath(merged, "trim.preserve-cursor", false)

	if v, _ := GetByPath(m.Merge(), "trim.preserve-cursor"); v != true {
		t.Error("modifying a merge result should not change the manager")
	}
}

func TestManagerReplaceAndRemove(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayer("user", SourceUser, map[string]any{"a": 1}))
	m.AddLayer(NewLayer("user", SourceUser, map[string]any{"a": 2}))

	if len(m.Names()) != 1 {
		t.Fatalf("same-name layer should replace, got %v", m.Names())
	}
	if v, _ := GetByPath(m.Merge(), "a"); v != 2 {
		t.Errorf("expected replaced value 2, got %v", v)
	}

	if !m.RemoveLayer("user") || m.RemoveLayer("user") {
		t.Error("RemoveLayer should succeed once")
	}
	if m.GetLayer("user") != nil {
		t.Error("layer should be gone")
	}
}

func TestManagerInvalidate(t *testing.T) {
	m := NewManager()
	l := NewLayer("user", SourceUser, nil)
	m.AddLayer(l)
	_ = m.Merge()

	SetByPath(l.Data, "x.y", true)
	m.Invalidate()

	if v, ok := GetByPath(m.Merge(), "x.y"); !ok || v != true {
		t.Errorf("expected refreshed merge, got %v", v)
	}
}

func TestSetByPath(t *testing.T) {
	data := map[string]any{"scalar": 1}

	if !SetByPath(data, "a.b.c", "v") {
		t.Fatal("expected nested set to succeed")
	}
	if v, _ := GetByPath(data, "a.b.c"); v != "v" {
		t.Errorf("expected v, got %v", v)
	}
	if SetByPath(data, "scalar.x", 1) {
		t.Error("setting through a scalar should fail")
	}
	if SetByPath(data, "", 1) || SetByPath(data, "a..b", 1) {
		t.Error("empty path segments should fail")
	}
}

func TestSourceString(t *testing.T) {
	if SourceProject.String() != "project" || Source(99).String() != "unknown" {
		t.Error("unexpected source names")
	}
	if DefaultPriority(SourceEnv) <= DefaultPriority(SourceProject) {
		t.Error("environment should override project settings")
	}
}
