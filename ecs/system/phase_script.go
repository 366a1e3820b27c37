package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/drillboss/prefabs"
)

// PhaseAction is one entry of the list returned by a script's on_enter hook.
type PhaseAction struct {
	CameraShakeFrames    int
	CameraShakeIntensity int
	Sound                string
	Log                  string
}

const phaseDispatchScript = `
__result := on_enter(__phase, __ctx)
`

// PhaseScript runs the on_enter hook of a compiled tengo script.
type PhaseScript struct {
	path     string
	compiled *tengo.Compiled
}

func LoadPhaseScript(path string) (*PhaseScript, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("phase script %s: %w", path, err)
	}
	ps, err := CompilePhaseScript(path, src)
	if err != nil {
		return nil, err
	}
	return ps, nil
}

func CompilePhaseScript(path string, src []byte) (*PhaseScript, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + phaseDispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__ctx", map[string]interface{}{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("phase script %s: compile: %w", path, err)
	}
	return &PhaseScript{path: path, compiled: compiled}, nil
}

func (ps *PhaseScript) Path() string {
	if ps == nil {
		return ""
	}
	return ps.path
}

// Enter runs on_enter for the phase and decodes its actions. Unknown action
// keys are ignored.
func (ps *PhaseScript) Enter(phase string, ctx map[string]interface{}) (actions []PhaseAction, err error) {
	if ps == nil || ps.compiled == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			actions = nil
			err = fmt.Errorf("phase script %s: on_enter(%s): %v", ps.path, phase, r)
		}
	}()
	if ctx == nil {
		ctx = map[string]interface{}{}
	}
	if err := ps.compiled.Set("__phase", phase); err != nil {
		return nil, err
	}
	if err := ps.compiled.Set("__ctx", ctx); err != nil {
		return nil, err
	}
	if err := ps.compiled.Run(); err != nil {
		return nil, fmt.Errorf("phase script %s: on_enter(%s): %w", ps.path, phase, err)
	}

	raw, ok := ps.compiled.Get("__result").Value().([]interface{})
	if !ok {
		return nil, nil
	}

	actions = make([]PhaseAction, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		var a PhaseAction
		if shake, ok := m["camera_shake"].(map[string]interface{}); ok {
			a.CameraShakeFrames = asInt(shake["frames"])
			a.CameraShakeIntensity = asInt(shake["intensity"])
		}
		if s, ok := m["play_sfx"].(string); ok {
			a.Sound = strings.TrimSpace(s)
		}
		if s, ok := m["log"].(string); ok {
			a.Log = s
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
