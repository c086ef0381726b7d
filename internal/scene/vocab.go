package scene

import (
	"sort"

	"forma/pkg/util"
)

// Canonical vocabularies the host understands. Keys are the spoken
// phrases, values are the host identifiers carried on the wire.

var objectTypes = map[string]string{
	"cube":     "CUBE",
	"sphere":   "SPHERE",
	"cylinder": "CYLINDER",
	"plane":    "PLANE",
	"torus":    "TORUS",
	"cone":     "CONE",
	"curve":    "CURVE",
}

var modifiers = map[string]string{
	"subdivision": "SUBSURF",
	"boolean":     "BOOLEAN",
	"solidify":    "SOLIDIFY",
	"mirror":      "MIRROR",
	"ocean":       "OCEAN",
}

var modes = map[string]string{
	"object mode":   "OBJECT",
	"edit mode":     "EDIT",
	"sculpt mode":   "SCULPT",
	"vertex paint":  "VERTEX_PAINT",
	"weight paint":  "WEIGHT_PAINT",
	"texture paint": "TEXTURE_PAINT",
	"pose mode":     "POSE",
}

var editors = map[string]string{
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

func CanonicalObjectType(s string) (string, bool) {
	id, ok := objectTypes[util.Fold(s)]
	return id, ok
}

func CanonicalModifier(s string) (string, bool) {
	id, ok := modifiers[util.Fold(s)]
	return id, ok
}

func CanonicalMode(s string) (string, bool) {
	folded := util.Fold(s)
	if id, ok := modes[folded]; ok {
		return id, true
	}
	// allow "edit" for "edit mode" etc.
	if id, ok := modes[folded+" mode"]; ok {
		return id, true
	}
	return "", false
}

func CanonicalEditor(s string) (string, bool) {
	id, ok := editors[util.Fold(s)]
	return id, ok
}

func ObjectTypes() []string { return sortedKeys(objectTypes) }
func Modifiers() []string   { return sortedKeys(modifiers) }
func Modes() []string       { return sortedKeys(modes) }
func Editors() []string     { return sortedKeys(editors) }

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
