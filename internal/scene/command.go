package scene

type Action string

const (
	ActionAddObject     Action = "add_object"
	ActionApplyModifier Action = "apply_modifier"
	ActionSwitchMode    Action = "switch_mode"
	ActionOpenEditor    Action = "open_editor"
	ActionDeleteObject  Action = "delete_object"
	ActionSelectObject  Action = "select_object"
	ActionUnknown       Action = "unknown"
)

// Command is one interpreted instruction for the host. Field names match
// the JSON schema the interpreter backends are prompted to emit.
type Command struct {
	Action     Action `json:"action"`
	ObjectType string `json:"object_type,omitempty"`
	Object     string `json:"object,omitempty"`
	Modifier   string `json:"modifier,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Editor     string `json:"editor,omitempty"`
	Query      string `json:"query,omitempty"`
}
