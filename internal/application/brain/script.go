package brain

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/younwookim/shine/internal/domain/entity"
)

// Script variables. Inputs are refreshed before every run, outputs are read
// back afterwards. memory is a map kept between runs.
var (
	scriptInputs  = []string{"x", "y", "vx", "vy", "facing", "at_wall", "mounted", "on_ladder", "near_ladder"}
	scriptOutputs = []string{"left", "right", "up", "down", "jump"}
)

// ScriptBrain runs a compiled tengo script once per tick
type ScriptBrain struct {
	name     string
	compiled *tengo.Compiled
	memory   *tengo.Map
	err      error

	// OnError is called when a run fails; the body then idles for the tick
	OnError func(name string, err error)
}

// NewScriptBrain compiles src. name is used in error messages.
func NewScriptBrain(name string, src []byte) (*ScriptBrain, error) {
	script := tengo.NewScript(src)
	for _, in := range scriptInputs {
		_ = script.Add(in, 0)
	}
	for _, out := range scriptOutputs {
		_ = script.Add(out, false)
	}
	_ = script.Add("memory", map[string]interface{}{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile script %s: %w", name, err)
	}
	return &ScriptBrain{
		name:     name,
		compiled: compiled,
		memory:   &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// Err returns the error of the last run, if any
func (s *ScriptBrain) Err() error { return s.err }

// Commands implements entity.CommandSource
func (s *ScriptBrain) Commands(b *entity.Body) entity.Commands {
	s.err = s.run(b)
	if s.err != nil {
		if s.OnError != nil {
			s.OnError(s.name, s.err)
		}
		return entity.Commands{}
	}
	return entity.Commands{
		Left:  s.compiled.Get("left").Bool(),
		Right: s.compiled.Get("right").Bool(),
		Up:    s.compiled.Get("up").Bool(),
		Down:  s.compiled.Get("down").Bool(),
		Jump:  s.compiled.Get("jump").Bool(),
	}
}

// run feeds b into the script and runs it. Runtime faults inside the VM,
// such as an integer division by zero, come back as errors.
func (s *ScriptBrain) run(b *entity.Body) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("run script %s: %v", s.name, r)
		}
	}()

	inputs := map[string]interface{}{
		"x":           b.X,
		"y":           b.Y,
		"vx":          b.VX,
		"vy":          b.VY,
		"facing":      b.Facing,
		"at_wall":     b.AtWall,
		"mounted":     b.Mounted(),
		"on_ladder":   b.Ladder.Locked(),
		"near_ladder": b.WhichLadder != nil,
	}
	for _, in := range scriptInputs {
		if err := s.compiled.Set(in, inputs[in]); err != nil {
			return err
		}
	}
	for _, out := range scriptOutputs {
		if err := s.compiled.Set(out, false); err != nil {
			return err
		}
	}
	if err := s.compiled.Set("memory", s.memory); err != nil {
		return err
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("run script %s: %w", s.name, err)
	}
	return nil
}
