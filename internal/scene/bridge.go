package scene

import (
	"fmt"
	log "log/slog"
	"strings"

	"forma/pkg/protocol"
)

const hostShard = "HOST"

// NotRecognized is the reply for anything the interpreter could not map
// onto the command vocabulary.
const NotRecognized = "Command not recognized."

// Transport is the request/response half of the host bridge. A nil
// transport puts the bridge in local-only mode: commands are validated
// and mirrored but nothing leaves the process.
type Transport interface {
	TransmitReceive(protocol.Message) (*protocol.Message, error)
}

type Bridge struct {
	transport Transport
	reg       *Registry
}

func NewBridge(transport Transport, reg *Registry) *Bridge {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Bridge{transport: transport, reg: reg}
}

// Dial connects the bridge to the host and starts the protocol read
// loop. An empty url yields a local-only bridge.
func Dial(hostURL string) (*Bridge, error) {
	if hostURL == "" {
		log.Warn("No host url, running local-only")
		return NewBridge(nil, nil), nil
	}

	ptcl, err := protocol.NewProtocol(protocol.Config{
		Shard:  "forma",
		Url:    hostURL,
		Reconn: 2,
	})
	if err != nil {
		return nil, err
	}

	bridge := NewBridge(ptcl, nil)
	ptcl.EmitOut(bridge.HandleEvent)
	go ptcl.Run()

	return bridge, nil
}

func (b *Bridge) Registry() *Registry { return b.reg }

// Apply validates one command, sends it to the host and returns the
// spoken reply. User-level misses (unknown command, missing object) come
// back as reply text, not errors; errors mean the bridge itself failed.
func (b *Bridge) Apply(cmd Command) (string, error) {
	switch cmd.Action {
	case ActionAddObject:
		return b.addObject(cmd)
	case ActionApplyModifier:
		return b.applyModifier(cmd)
	case ActionSwitchMode:
		return b.switchMode(cmd)
	case ActionOpenEditor:
		return b.openEditor(cmd)
	case ActionDeleteObject:
		return b.deleteObject(cmd)
	case ActionSelectObject:
		return b.selectObject(cmd)
	default:
		return NotRecognized, nil
	}
}

// ApplyAll executes a planned command sequence, stopping at the first
// command that does not land.
func (b *Bridge) ApplyAll(cmds []Command) (string, error) {
	if len(cmds) == 0 {
		return NotRecognized, nil
	}

	var replies []string
	for i, cmd := range cmds {
		if cmd.Action == ActionUnknown || cmd.Action == "" {
			replies = append(replies, fmt.Sprintf("Stopped at step %d: %s", i+1, NotRecognized))
			break
		}
		reply, err := b.Apply(cmd)
		if err != nil {
			return strings.Join(replies, " "), err
		}
		replies = append(replies, reply)
	}
	return strings.Join(replies, " "), nil
}

// HandleEvent keeps the scene mirror current from unsolicited host frames.
func (b *Bridge) HandleEvent(msg *protocol.Message) {
	if msg == nil || msg.Verb != "EVT" {
		return
	}

	switch msg.Noun {
	case "OBJECT_ADDED":
		if len(msg.Args) > 0 {
			b.reg.Add(msg.Args[0])
			log.Debug("Mirror add", "object", msg.Args[0])
		}
	case "OBJECT_REMOVED":
		if len(msg.Args) > 0 {
			b.reg.Remove(msg.Args[0])
			log.Debug("Mirror remove", "object", msg.Args[0])
		}
	default:
		log.Debug("Ignoring host event", "noun", msg.Noun)
	}
}

func (b *Bridge) addObject(cmd Command) (string, error) {
	id, ok := CanonicalObjectType(cmd.ObjectType)
	if !ok {
		return fmt.Sprintf("I can't add a %s.", cmd.ObjectType), nil
	}

	reply, err := b.send(protocol.Message{
		To: hostShard, Verb: "ADD", Noun: "OBJECT", Args: []string{id},
	})
	if err != nil {
		return "", err
	}
	if reply != nil && reply.IsErr() {
		return hostRefusal(reply), nil
	}

	name := baseName(id)
	if reply != nil && len(reply.Args) > 0 {
		name = reply.Args[0]
	} else {
		name = b.reg.UniqueName(name)
	}
	b.reg.Add(name)

	return fmt.Sprintf("Added a %s to the scene.", strings.ToLower(cmd.ObjectType)), nil
}

func (b *Bridge) applyModifier(cmd Command) (string, error) {
	id, ok := CanonicalModifier(cmd.Modifier)
	if !ok {
		return fmt.Sprintf("I don't know a %s modifier.", cmd.Modifier), nil
	}

	name, ok := b.reg.Resolve(cmd.Object)
	if !ok {
		return fmt.Sprintf("I don't see an object called %s.", cmd.Object), nil
	}

	reply, err := b.send(protocol.Message{
		To: hostShard, Verb: "APPLY", Noun: "MODIFIER", Args: []string{name, id},
	})
	if err != nil {
		return "", err
	}
	if reply != nil && reply.IsErr() {
		return hostRefusal(reply), nil
	}

	return fmt.Sprintf("Applied the %s modifier to %s.", strings.ToLower(cmd.Modifier), name), nil
}

func (b *Bridge) switchMode(cmd Command) (string, error) {
	id, ok := CanonicalMode(cmd.Mode)
	if !ok {
		return fmt.Sprintf("There is no %s mode.", cmd.Mode), nil
	}

	reply, err := b.send(protocol.Message{
		To: hostShard, Verb: "SET", Noun: "MODE", Args: []string{id},
	})
	if err != nil {
		return "", err
	}
	if reply != nil && reply.IsErr() {
		return hostRefusal(reply), nil
	}

	return fmt.Sprintf("Switched to %s.", spokenMode(cmd.Mode)), nil
}

func (b *Bridge) openEditor(cmd Command) (string, error) {
	id, ok := CanonicalEditor(cmd.Editor)
	if !ok {
		return fmt.Sprintf("I don't know an editor called %s.", cmd.Editor), nil
	}

	reply, err := b.send(protocol.Message{
		To: hostShard, Verb: "OPEN", Noun: "EDITOR", Args: []string{id},
	})
	if err != nil {
		return "", err
	}
	if reply != nil && reply.IsErr() {
		return hostRefusal(reply), nil
	}

	return fmt.Sprintf("Opened %s.", strings.ToLower(cmd.Editor)), nil
}

func (b *Bridge) deleteObject(cmd Command) (string, error) {
	args := []string{}
	spoken := "the selected object"

	if cmd.Object != "" {
		name, ok := b.reg.Resolve(cmd.Object)
		if !ok {
			return fmt.Sprintf("I don't see an object called %s.", cmd.Object), nil
		}
		args = append(args, name)
		spoken = name
	}

	reply, err := b.send(protocol.Message{
		To: hostShard, Verb: "DELETE", Noun: "OBJECT", Args: args,
	})
	if err != nil {
		return "", err
	}
	if reply != nil && reply.IsErr() {
		return hostRefusal(reply), nil
	}

	if len(args) > 0 {
		b.reg.Remove(args[0])
	}

	return fmt.Sprintf("Deleted %s.", spoken), nil
}

func (b *Bridge) selectObject(cmd Command) (string, error) {
	name, ok := b.reg.Resolve(cmd.Object)
	if !ok {
		return fmt.Sprintf("I don't see an object called %s.", cmd.Object), nil
	}

	reply, err := b.send(protocol.Message{
		To: hostShard, Verb: "SELECT", Noun: "OBJECT", Args: []string{name},
	})
	if err != nil {
		return "", err
	}
	if reply != nil && reply.IsErr() {
		return hostRefusal(reply), nil
	}

	return fmt.Sprintf("Selected %s.", name), nil
}

func (b *Bridge) send(msg protocol.Message) (*protocol.Message, error) {
	if b.transport == nil {
		log.Debug("Local-only, not transmitting", "msg", msg.String())
		return nil, nil
	}

	reply, err := b.transport.TransmitReceive(msg)
	if err != nil {
		return nil, fmt.Errorf("host bridge: %w", err)
	}
	return reply, nil
}

func hostRefusal(reply *protocol.Message) string {
	reason := strings.ToLower(strings.ReplaceAll(reply.Noun, "_", " "))
	return fmt.Sprintf("The host refused: %s.", reason)
}

// baseName turns a host identifier into a Blender-style object name:
// CUBE -> Cube.
func baseName(id string) string {
	if id == "" {
		return id
	}
	return strings.ToUpper(id[:1]) + strings.ToLower(id[1:])
}

func spokenMode(mode string) string {
	m := strings.ToLower(strings.TrimSpace(mode))
	if strings.HasSuffix(m, "mode") || strings.HasSuffix(m, "paint") {
		return m
	}
	return m + " mode"
}
