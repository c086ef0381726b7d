package scene

import (
	"strings"
	"testing"

	"forma/pkg/protocol"
)

// fakeTransport records outgoing frames and plays back scripted replies.
type fakeTransport struct {
	sent    []protocol.Message
	replies []*protocol.Message
}

func (f *fakeTransport) TransmitReceive(msg protocol.Message) (*protocol.Message, error) {
	f.sent = append(f.sent, msg)
	if len(f.replies) == 0 {
		reply := &protocol.Message{To: "forma", From: "host"}
		reply.Ok("DONE")
		return reply, nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func okReply(noun string, args ...string) *protocol.Message {
	m := &protocol.Message{To: "forma", From: "host"}
	m.Ok(noun, args...)
	return m
}

func errReply(noun string) *protocol.Message {
	m := &protocol.Message{To: "forma", From: "host"}
	m.Error(noun)
	return m
}

func TestAddObjectFrames(t *testing.T) {
	ft := &fakeTransport{replies: []*protocol.Message{okReply("ADDED", "Cube")}}
	b := NewBridge(ft, nil)

	reply, err := b.Apply(Command{Action: ActionAddObject, ObjectType: "cube"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if reply != "Added a cube to the scene." {
		t.Errorf("reply = %q", reply)
	}

	if len(ft.sent) != 1 {
		t.Fatalf("sent %d frames, want 1", len(ft.sent))
	}
	frame := ft.sent[0]
	if frame.Verb != "ADD" || frame.Noun != "OBJECT" || frame.Args[0] != "CUBE" {
		t.Errorf("frame = %+v", frame)
	}

	// the host-assigned name lands in the mirror
	if !b.Registry().Has("Cube") {
		t.Error("host-assigned name not mirrored")
	}
}

func TestAddObjectLocalOnly(t *testing.T) {
	b := NewBridge(nil, nil)

	if _, err := b.Apply(Command{Action: ActionAddObject, ObjectType: "cube"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := b.Apply(Command{Action: ActionAddObject, ObjectType: "cube"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	names := b.Registry().Names()
	if len(names) != 2 || names[0] != "Cube" || names[1] != "Cube.001" {
		t.Errorf("mirror names = %v", names)
	}
}

func TestAddObjectUnknownType(t *testing.T) {
	b := NewBridge(nil, nil)

	reply, err := b.Apply(Command{Action: ActionAddObject, ObjectType: "teapot"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !strings.Contains(reply, "teapot") {
		t.Errorf("reply = %q, should name the unknown type", reply)
	}
}

func TestApplyModifier(t *testing.T) {
	ft := &fakeTransport{}
	b := NewBridge(ft, nil)
	b.Registry().Add("Cube.001")

	reply, err := b.Apply(Command{
		Action:   ActionApplyModifier,
		Object:   "cube.001",
		Modifier: "subdivision",
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if reply != "Applied the subdivision modifier to Cube.001." {
		t.Errorf("reply = %q", reply)
	}

	frame := ft.sent[0]
	if frame.Verb != "APPLY" || frame.Args[0] != "Cube.001" || frame.Args[1] != "SUBSURF" {
		t.Errorf("frame = %+v", frame)
	}
}

func TestApplyModifierMissingObject(t *testing.T) {
	b := NewBridge(nil, nil)

	reply, err := b.Apply(Command{
		Action:   ActionApplyModifier,
		Object:   "Suzanne",
		Modifier: "mirror",
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !strings.Contains(reply, "Suzanne") {
		t.Errorf("reply = %q, should name the missing object", reply)
	}
}

func TestSwitchMode(t *testing.T) {
	ft := &fakeTransport{}
	b := NewBridge(ft, nil)

	reply, err := b.Apply(Command{Action: ActionSwitchMode, Mode: "edit mode"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if reply != "Switched to edit mode." {
		t.Errorf("reply = %q", reply)
	}
	if ft.sent[0].Verb != "SET" || ft.sent[0].Args[0] != "EDIT" {
		t.Errorf("frame = %+v", ft.sent[0])
	}
}

func TestOpenEditor(t *testing.T) {
	ft := &fakeTransport{}
	b := NewBridge(ft, nil)

	reply, err := b.Apply(Command{Action: ActionOpenEditor, Editor: "geometry nodes"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if reply != "Opened geometry nodes." {
		t.Errorf("reply = %q", reply)
	}
	if ft.sent[0].Verb != "OPEN" || ft.sent[0].Args[0] != "NODE_EDITOR" {
		t.Errorf("frame = %+v", ft.sent[0])
	}
}

func TestDeleteObject(t *testing.T) {
	ft := &fakeTransport{}
	b := NewBridge(ft, nil)
	b.Registry().Add("Torus")

	reply, err := b.Apply(Command{Action: ActionDeleteObject, Object: "torus"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if reply != "Deleted Torus." {
		t.Errorf("reply = %q", reply)
	}
	if b.Registry().Has("Torus") {
		t.Error("deleted object still mirrored")
	}
}

func TestDeleteSelected(t *testing.T) {
	ft := &fakeTransport{}
	b := NewBridge(ft, nil)

	reply, err := b.Apply(Command{Action: ActionDeleteObject})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if reply != "Deleted the selected object." {
		t.Errorf("reply = %q", reply)
	}
	if len(ft.sent[0].Args) != 0 {
		t.Errorf("frame should carry no args, got %v", ft.sent[0].Args)
	}
}

func TestHostRefusal(t *testing.T) {
	ft := &fakeTransport{replies: []*protocol.Message{errReply("MODE_LOCKED")}}
	b := NewBridge(ft, nil)

	reply, err := b.Apply(Command{Action: ActionSwitchMode, Mode: "pose mode"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if reply != "The host refused: mode locked." {
		t.Errorf("reply = %q", reply)
	}
}

func TestUnknownAction(t *testing.T) {
	b := NewBridge(nil, nil)

	reply, err := b.Apply(Command{Action: ActionUnknown, Query: "what is a mesh"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if reply != NotRecognized {
		t.Errorf("reply = %q, want %q", reply, NotRecognized)
	}
}

func TestApplyAll(t *testing.T) {
	b := NewBridge(nil, nil)

	reply, err := b.ApplyAll([]Command{
		{Action: ActionAddObject, ObjectType: "cube"},
		{Action: ActionApplyModifier, Object: "Cube", Modifier: "mirror"},
	})
	if err != nil {
		t.Fatalf("ApplyAll failed: %v", err)
	}
	if !strings.Contains(reply, "Added a cube") || !strings.Contains(reply, "mirror modifier") {
		t.Errorf("reply = %q", reply)
	}
}

func TestApplyAllStopsAtUnknown(t *testing.T) {
	b := NewBridge(nil, nil)

	reply, err := b.ApplyAll([]Command{
		{Action: ActionAddObject, ObjectType: "sphere"},
		{Action: ActionUnknown},
		{Action: ActionAddObject, ObjectType: "cone"},
	})
	if err != nil {
		t.Fatalf("ApplyAll failed: %v", err)
	}
	if !strings.Contains(reply, "Stopped at step 2") {
		t.Errorf("reply = %q", reply)
	}
	if b.Registry().Has("Cone") {
		t.Error("commands after the failed step were executed")
	}
}

func TestHandleEvent(t *testing.T) {
	b := NewBridge(nil, nil)

	added, _ := protocol.Parse("forma:EVT:OBJECT_ADDED:Suzanne:host")
	b.HandleEvent(added)
	if !b.Registry().Has("Suzanne") {
		t.Error("OBJECT_ADDED not mirrored")
	}

	removed, _ := protocol.Parse("forma:EVT:OBJECT_REMOVED:Suzanne:host")
	b.HandleEvent(removed)
	if b.Registry().Has("Suzanne") {
		t.Error("OBJECT_REMOVED not mirrored")
	}

	// non-events and nils are ignored
	b.HandleEvent(nil)
	ok, _ := protocol.Parse("forma:OK:ADDED:Cube:host")
	b.HandleEvent(ok)
	if b.Registry().Has("Cube") {
		t.Error("reply frame mutated the mirror")
	}
}
