package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/shine/internal/domain/entity"
)

// InputState holds the current input state
type InputState struct {
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Jump   bool
	Switch bool // hand control to the next character
}

// Commands converts the keyboard state into a command snapshot
func (in InputState) Commands() entity.Commands {
	return entity.Commands{
		Up:    in.Up,
		Down:  in.Down,
		Left:  in.Left,
		Right: in.Right,
		Jump:  in.Jump,
	}
}

// InputSystem is the keyboard command source. Only the active body
// receives commands; every other body it is attached to stands still.
type InputSystem struct {
	state  InputState
	active *entity.Body
	party  []*entity.Body
}

// NewInputSystem creates a new input system
func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

// GetInput reads the current input state
func (s *InputSystem) GetInput() InputState {
	return InputState{
		Left:   ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:  ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Up:     ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:   ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Jump:   ebiten.IsKeyPressed(ebiten.KeySpace),
		Switch: inpututil.IsKeyJustPressed(ebiten.KeyTab),
	}
}

// Join makes the keyboard the command source of b. The first body to
// join becomes the active one.
func (s *InputSystem) Join(b *entity.Body) {
	b.Brain = s
	s.party = append(s.party, b)
	if s.active == nil {
		s.active = b
	}
}

// Active returns the body currently under keyboard control
func (s *InputSystem) Active() *entity.Body { return s.active }

// Apply stores the state sampled for this frame and handles switching
func (s *InputSystem) Apply(in InputState) {
	s.state = in
	if in.Switch {
		s.next()
	}
}

func (s *InputSystem) next() {
	if len(s.party) == 0 {
		return
	}
	for i, b := range s.party {
		if b == s.active {
			s.active = s.party[(i+1)%len(s.party)]
			return
		}
	}
	s.active = s.party[0]
}

// Commands implements entity.CommandSource
func (s *InputSystem) Commands(b *entity.Body) entity.Commands {
	if b != s.active {
		return entity.Commands{}
	}
	return s.state.Commands()
}
