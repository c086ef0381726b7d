package nlu

import (
	"context"
	"strings"

	"forma/internal/scene"
	"forma/pkg/util"
)

// Fallback is the offline word-scan classifier. It is the whole backend
// in offline mode and the safety net when an LLM backend errors out.
type Fallback struct {
	reg *scene.Registry
}

func NewFallback(reg *scene.Registry) *Fallback {
	if reg == nil {
		reg = scene.NewRegistry()
	}
	return &Fallback{reg: reg}
}

func (f *Fallback) Name() string { return "offline" }

func (f *Fallback) Interpret(_ context.Context, utterance string) (scene.Command, error) {
	return f.classify(utterance), nil
}

// Plan splits the instruction on "then" and classifies each step.
func (f *Fallback) Plan(_ context.Context, instruction string) ([]scene.Command, error) {
	var cmds []scene.Command
	for _, step := range strings.Split(util.Fold(instruction), " then ") {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		cmds = append(cmds, f.classify(step))
	}
	return cmds, nil
}

func (f *Fallback) classify(utterance string) scene.Command {
	cmd := scene.Command{Action: scene.ActionUnknown, Query: utterance}

	words := util.Words(utterance)
	if len(words) == 0 {
		return cmd
	}

	var (
		objectType string
		objectName string
		modifier   string
	)

	for _, w := range words {
		if objectType == "" {
			if _, ok := scene.CanonicalObjectType(w); ok {
				objectType = w
			}
		}
		if objectName == "" {
			if name, ok := f.reg.Resolve(w); ok {
				objectName = name
			}
		}
		if modifier == "" {
			if _, ok := scene.CanonicalModifier(w); ok {
				modifier = w
			}
		}
	}

	target := objectName
	if target == "" {
		target = objectType
	}

	switch {
	case hasAny(utterance, "delete", "remove"):
		cmd.Action = scene.ActionDeleteObject
		cmd.Object = target

	case hasAny(utterance, "select"):
		if target == "" {
			return cmd
		}
		cmd.Action = scene.ActionSelectObject
		cmd.Object = target

	case modifier != "":
		cmd.Action = scene.ActionApplyModifier
		cmd.Modifier = modifier
		cmd.Object = target

	case matchPhrase(utterance, scene.Modes()) != "":
		cmd.Action = scene.ActionSwitchMode
		cmd.Mode = matchPhrase(utterance, scene.Modes())

	case matchPhrase(utterance, scene.Editors()) != "":
		cmd.Action = scene.ActionOpenEditor
		cmd.Editor = matchPhrase(utterance, scene.Editors())

	case objectType != "":
		cmd.Action = scene.ActionAddObject
		cmd.ObjectType = objectType
	}

	return cmd
}

func hasAny(utterance string, phrases ...string) bool {
	for _, p := range phrases {
		if util.ContainsPhrase(utterance, p) {
			return true
		}
	}
	return false
}

// matchPhrase returns the longest vocabulary phrase present in the
// utterance, so "vertex paint" wins over a hypothetical "paint".
func matchPhrase(utterance string, vocab []string) string {
	best := ""
	for _, p := range vocab {
		if util.ContainsPhrase(utterance, p) && len(p) > len(best) {
			best = p
		}
	}
	return best
}
