package scene

import "testing"

func TestCanonicalObjectType(t *testing.T) {
	cases := map[string]string{
		"cube":     "CUBE",
		"Sphere":   "SPHERE",
		"CYLINDER": "CYLINDER",
		"plane":    "PLANE",
		"torus":    "TORUS",
		"cone":     "CONE",
		"curve":    "CURVE",
	}
	for in, want := range cases {
		got, ok := CanonicalObjectType(in)
		if !ok || got != want {
			t.Errorf("CanonicalObjectType(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}

	if _, ok := CanonicalObjectType("teapot"); ok {
		t.Error("teapot should not be a known primitive")
	}
}

func TestCanonicalModifier(t *testing.T) {
	cases := map[string]string{
		"subdivision": "SUBSURF",
		"boolean":     "BOOLEAN",
		"solidify":    "SOLIDIFY",
		"Mirror":      "MIRROR",
		"ocean":       "OCEAN",
	}
	for in, want := range cases {
		got, ok := CanonicalModifier(in)
		if !ok || got != want {
			t.Errorf("CanonicalModifier(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
}

func TestCanonicalMode(t *testing.T) {
	if got, ok := CanonicalMode("edit mode"); !ok || got != "EDIT" {
		t.Errorf("edit mode = %q, %v", got, ok)
	}
	// bare phrase without the "mode" suffix also resolves
	if got, ok := CanonicalMode("sculpt"); !ok || got != "SCULPT" {
		t.Errorf("sculpt = %q, %v", got, ok)
	}
	if got, ok := CanonicalMode("vertex paint"); !ok || got != "VERTEX_PAINT" {
		t.Errorf("vertex paint = %q, %v", got, ok)
	}
	if _, ok := CanonicalMode("turbo"); ok {
		t.Error("turbo should not be a mode")
	}
}

func TestCanonicalEditor(t *testing.T) {
	cases := map[string]string{
		"geometry nodes":        "NODE_EDITOR",
		"shader editor":         "NODE_EDITOR",
		"animation":             "DOPESHEET_EDITOR",
		"timeline":              "TIMELINE",
		"uv editing":            "IMAGE_EDITOR",
		"video sequence editor": "SEQUENCE_EDITOR",
		"scripting":             "TEXT_EDITOR",
		"outliner":              "OUTLINER",
		"properties":            "PROPERTIES",
	}
	for in, want := range cases {
		got, ok := CanonicalEditor(in)
		if !ok || got != want {
			t.Errorf("CanonicalEditor(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
}

func TestVocabularyListings(t *testing.T) {
	if len(ObjectTypes()) != 7 {
		t.Errorf("ObjectTypes() has %d entries, want 7", len(ObjectTypes()))
	}
	if len(Modifiers()) != 5 {
		t.Errorf("Modifiers() has %d entries, want 5", len(Modifiers()))
	}
	if len(Modes()) != 7 {
		t.Errorf("Modes() has %d entries, want 7", len(Modes()))
	}
	if len(Editors()) != 9 {
		t.Errorf("Editors() has %d entries, want 9", len(Editors()))
	}
}
