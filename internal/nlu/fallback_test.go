package nlu

import (
	"context"
	"testing"

	"forma/internal/scene"
)

func TestFallbackAddObject(t *testing.T) {
	f := NewFallback(nil)

	cmd, err := f.Interpret(context.Background(), "please add a big CUBE")
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	if cmd.Action != scene.ActionAddObject || cmd.ObjectType != "cube" {
		t.Errorf("cmd = %+v", cmd)
	}
}

func TestFallbackApplyModifier(t *testing.T) {
	reg := scene.NewRegistry()
	reg.Add("Cube.001")
	f := NewFallback(reg)

	cmd, err := f.Interpret(context.Background(), "apply the mirror modifier to cube.001")
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	if cmd.Action != scene.ActionApplyModifier {
		t.Fatalf("cmd = %+v", cmd)
	}
	if cmd.Modifier != "mirror" || cmd.Object != "Cube.001" {
		t.Errorf("cmd = %+v", cmd)
	}
}

func TestFallbackModifierBeatsAdd(t *testing.T) {
	// "add subdivision to the cube" mentions a primitive word, but the
	// modifier makes it an apply, not an add
	f := NewFallback(nil)

	cmd, _ := f.Interpret(context.Background(), "add subdivision to the cube")
	if cmd.Action != scene.ActionApplyModifier || cmd.Modifier != "subdivision" {
		t.Errorf("cmd = %+v", cmd)
	}
	if cmd.Object != "cube" {
		t.Errorf("Object = %q, want the spoken target", cmd.Object)
	}
}

func TestFallbackSwitchMode(t *testing.T) {
	f := NewFallback(nil)

	cmd, _ := f.Interpret(context.Background(), "switch to Edit Mode")
	if cmd.Action != scene.ActionSwitchMode || cmd.Mode != "edit mode" {
		t.Errorf("cmd = %+v", cmd)
	}

	cmd, _ = f.Interpret(context.Background(), "go to vertex paint")
	if cmd.Action != scene.ActionSwitchMode || cmd.Mode != "vertex paint" {
		t.Errorf("cmd = %+v", cmd)
	}
}

func TestFallbackOpenEditor(t *testing.T) {
	f := NewFallback(nil)

	cmd, _ := f.Interpret(context.Background(), "open the geometry nodes")
	if cmd.Action != scene.ActionOpenEditor || cmd.Editor != "geometry nodes" {
		t.Errorf("cmd = %+v", cmd)
	}

	cmd, _ = f.Interpret(context.Background(), "show me the video sequence editor")
	if cmd.Action != scene.ActionOpenEditor || cmd.Editor != "video sequence editor" {
		t.Errorf("cmd = %+v", cmd)
	}
}

func TestFallbackDelete(t *testing.T) {
	reg := scene.NewRegistry()
	reg.Add("Torus")
	f := NewFallback(reg)

	cmd, _ := f.Interpret(context.Background(), "delete the torus")
	if cmd.Action != scene.ActionDeleteObject || cmd.Object != "Torus" {
		t.Errorf("cmd = %+v", cmd)
	}

	// no target at all = delete whatever is selected
	cmd, _ = f.Interpret(context.Background(), "delete that")
	if cmd.Action != scene.ActionDeleteObject || cmd.Object != "" {
		t.Errorf("cmd = %+v", cmd)
	}
}

func TestFallbackDeleteBeatsAdd(t *testing.T) {
	// "delete the cube" mentions a primitive word, but the delete verb
	// makes it a removal, not an add
	f := NewFallback(nil)

	cmd, _ := f.Interpret(context.Background(), "delete the cube")
	if cmd.Action != scene.ActionDeleteObject {
		t.Errorf("cmd = %+v", cmd)
	}
	if cmd.ObjectType != "" {
		t.Errorf("ObjectType = %q, a delete must not carry one", cmd.ObjectType)
	}
}

func TestFallbackSelect(t *testing.T) {
	reg := scene.NewRegistry()
	reg.Add("Sphere")
	f := NewFallback(reg)

	cmd, _ := f.Interpret(context.Background(), "select the sphere")
	if cmd.Action != scene.ActionSelectObject || cmd.Object != "Sphere" {
		t.Errorf("cmd = %+v", cmd)
	}
}

func TestFallbackUnknown(t *testing.T) {
	f := NewFallback(nil)

	cmd, _ := f.Interpret(context.Background(), "what is the meaning of life")
	if cmd.Action != scene.ActionUnknown {
		t.Errorf("cmd = %+v", cmd)
	}
	if cmd.Query == "" {
		t.Error("Query should carry the utterance")
	}

	cmd, _ = f.Interpret(context.Background(), "")
	if cmd.Action != scene.ActionUnknown {
		t.Errorf("empty utterance cmd = %+v", cmd)
	}
}

func TestFallbackPlan(t *testing.T) {
	f := NewFallback(nil)

	cmds, err := f.Plan(context.Background(), "add a cube then switch to edit mode")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("plan has %d steps, want 2", len(cmds))
	}
	if cmds[0].Action != scene.ActionAddObject || cmds[1].Action != scene.ActionSwitchMode {
		t.Errorf("plan = %+v", cmds)
	}
}
