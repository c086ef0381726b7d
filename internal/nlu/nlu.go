package nlu

import (
	"context"
	"fmt"
	"strings"

	"forma/internal/scene"
)

// Interpreter turns an utterance into scene commands. Backends: OpenAI,
// Ollama (local DeepSeek), and the offline keyword classifier.
type Interpreter interface {
	Name() string
	Interpret(ctx context.Context, utterance string) (scene.Command, error)
	Plan(ctx context.Context, instruction string) ([]scene.Command, error)
}

const systemPrompt = `
You are FORMA-NLU, the intent classifier of a voice-controlled 3D
modeling assistant. Your ONLY job is to convert the user's utterance
into one minimal structured JSON object.

GENERAL RULES:
1. Do NOT converse.
2. Do NOT answer questions.
3. Do NOT add explanations.
4. Output ONLY JSON. No markdown.
5. Never invent objects or values the user did not mention.

OUTPUT FORMAT:
{
  "action": "<string>",
  "object_type": "<string or omit>",
  "object": "<string or omit>",
  "modifier": "<string or omit>",
  "mode": "<string or omit>",
  "editor": "<string or omit>",
  "query": "<original user text>"
}

ACTIONS (canonical, snake_case):
- "add_object"     (needs object_type)
- "apply_modifier" (needs object and modifier)
- "switch_mode"    (needs mode)
- "open_editor"    (needs editor)
- "delete_object"  (object optional; omit = selected object)
- "select_object"  (needs object)
- "unknown"        (if not classifiable)

VOCABULARY (map synonyms onto these, lowercase):
- object_type: cube, sphere, cylinder, plane, torus, cone, curve
- modifier: subdivision, boolean, solidify, mirror, ocean
- mode: object mode, edit mode, sculpt mode, vertex paint, weight paint,
  texture paint, pose mode
- editor: geometry nodes, shader editor, animation, timeline, uv editing,
  video sequence editor, scripting, outliner, properties

If the meaning is unclear, action = "unknown".
Be strict and minimal. Do not generate text other than the JSON.
`

const planPrompt = `
You are FORMA-PLANNER, the macro planner of a voice-controlled 3D
modeling assistant. Convert the user's instruction into an ordered JSON
array of command objects, each shaped exactly like FORMA-NLU output:
{"action": ..., "object_type": ..., "object": ..., "modifier": ...,
"mode": ..., "editor": ...}.

Use only these actions: add_object, apply_modifier, switch_mode,
open_editor, delete_object, select_object. Use only the canonical
vocabulary: object_type cube|sphere|cylinder|plane|torus|cone|curve,
modifier subdivision|boolean|solidify|mirror|ocean. Keep the plan as
short as possible. Output ONLY the JSON array. No markdown, no prose.
`

// decodeCommand parses and normalizes one backend JSON reply.
func decodeCommand(raw, utterance string) (scene.Command, error) {
	blob, err := ExtractJSONObject(raw)
	if err != nil {
		return scene.Command{}, fmt.Errorf("extract command: %w (raw: %s)", err, raw)
	}

	var cmd scene.Command
	if err := unmarshalStrict(blob, &cmd); err != nil {
		return scene.Command{}, fmt.Errorf("unmarshal command: %w (raw: %s)", err, raw)
	}

	normalize(&cmd, utterance)
	return cmd, nil
}

// decodePlan parses and normalizes a backend plan reply.
func decodePlan(raw, instruction string) ([]scene.Command, error) {
	blob, err := ExtractJSONArray(raw)
	if err != nil {
		return nil, fmt.Errorf("extract plan: %w (raw: %s)", err, raw)
	}

	var cmds []scene.Command
	if err := unmarshalStrict(blob, &cmds); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w (raw: %s)", err, raw)
	}

	for i := range cmds {
		normalize(&cmds[i], instruction)
	}
	return cmds, nil
}

var knownActions = map[scene.Action]struct{}{
	scene.ActionAddObject:     {},
	scene.ActionApplyModifier: {},
	scene.ActionSwitchMode:    {},
	scene.ActionOpenEditor:    {},
	scene.ActionDeleteObject:  {},
	scene.ActionSelectObject:  {},
	scene.ActionUnknown:       {},
}

func normalize(cmd *scene.Command, utterance string) {
	cmd.Action = scene.Action(strings.ToLower(strings.TrimSpace(string(cmd.Action))))
	if _, ok := knownActions[cmd.Action]; !ok {
		cmd.Action = scene.ActionUnknown
	}
	if cmd.Query == "" {
		cmd.Query = utterance
	}
}
