// Package session assembles a loaded stage into a running simulation:
// bodies, brains, platforms, arrows and level progress. It has no
// rendering so replays can run it headless.
package session

import (
	"errors"
	"fmt"
	"log"

	"github.com/younwookim/shine/internal/application/brain"
	"github.com/younwookim/shine/internal/application/fx"
	"github.com/younwookim/shine/internal/application/replay"
	"github.com/younwookim/shine/internal/application/state"
	"github.com/younwookim/shine/internal/application/system"
	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/ecs"
	"github.com/younwookim/shine/internal/infrastructure/config"
)

// ArrowProfile is the projectile profile shot by Fire
const ArrowProfile = "arrow"

// defaultLegDuration is used for platforms placed without a duration
const defaultLegDuration = 2.0

// ErrUnknownBody is returned when a named body does not exist
var ErrUnknownBody = errors.New("unknown body")

// Controller hands out commands to the characters that join it
type Controller interface {
	Join(b *entity.Body)
}

// Options select where characters get their commands from
type Options struct {
	// Scripts loads the tengo source named by a profile
	Scripts func(name string) ([]byte, error)
	// Player receives friendly characters without a script
	Player Controller
	// Override replaces every character's brain, for replays
	Override entity.CommandSource
	// Recorder records the commands every character receives
	Recorder *replay.Recorder
	// OnScriptError is called when a script fails to run
	OnScriptError func(name string, err error)
}

// Session is one running stage
type Session struct {
	cfg  *config.GameConfig
	opts Options
	name string

	world     *ecs.World
	events    *system.EventBus
	physics   *system.PhysicsSystem
	platforms *system.PlatformSystem
	combat    *system.CombatSystem
	level     *state.Level
	shake     *fx.Shake

	profiles map[*entity.Body]string
	frame    int
}

// New builds a session for stage
func New(cfg *config.GameConfig, stage *config.StageData, opts Options) (*Session, error) {
	arrow, err := cfg.Profiles.Projectile(ArrowProfile)
	if err != nil {
		return nil, err
	}

	events := system.NewEventBus()
	world := ecs.NewWorld()
	physics := system.NewPhysicsSystem(cfg.Physics, stage.Stage, events)
	world.OnDestroy(physics.Detach)

	s := &Session{
		cfg:       cfg,
		opts:      opts,
		name:      stage.Name,
		world:     world,
		events:    events,
		physics:   physics,
		platforms: system.NewPlatformSystem(physics.Docks()),
		combat:    system.NewCombatSystem(world, physics, events, arrow),
		level:     state.NewLevel(),
		shake:     fx.NewShake(cfg.Physics.Feedback.ScreenShake),
		profiles:  make(map[*entity.Body]string),
	}
	physics.Translator().Shaker = s.shake
	events.Subscribe(system.EventReachedExit, func(ev system.Event) {
		s.level.ReachedExit(ev.Body)
	})

	for i, r := range stage.Stage.Ladders {
		b := entity.NewBody(fmt.Sprintf("ladder%d", i), entity.KindLadder, r.X, r.Y, r.W, r.H, entity.Props{})
		b.Static = true
		if err := s.add(b); err != nil {
			return nil, err
		}
	}

	for _, p := range stage.Platforms {
		b := entity.NewBody(p.Name, entity.KindDefault, p.X, p.Y, p.W, p.H, entity.Props{})
		dur := p.Duration
		if dur <= 0 {
			dur = defaultLegDuration
		}
		shuttle := system.NewShuttle(b, p.DX, p.DY, dur)
		if err := s.add(b); err != nil {
			return nil, err
		}
		s.platforms.Add(shuttle)
	}

	for _, sp := range stage.Bodies {
		if err := s.spawn(sp); err != nil {
			return nil, err
		}
	}

	s.level.Start()
	return s, nil
}

func (s *Session) spawn(sp config.BodySpawn) error {
	profile, err := s.cfg.Profiles.Character(sp.Profile)
	if err != nil {
		return fmt.Errorf("spawn %s: %w", sp.Name, err)
	}
	b, err := profile.NewBody(sp.Name, sp.X, sp.Y)
	if err != nil {
		return fmt.Errorf("spawn %s: %w", sp.Name, err)
	}
	if err := s.assignBrain(b, profile); err != nil {
		return err
	}
	s.profiles[b] = sp.Profile
	if b.Kind.Has(entity.KindFriendly) {
		s.level.Register(b)
	}
	return s.add(b)
}

func (s *Session) add(b *entity.Body) error {
	s.world.Spawn(b)
	if err := s.physics.Attach(b); err != nil {
		s.world.DestroyEntity(b.ID)
		return err
	}
	return nil
}

// assignBrain picks the command source of a character. Other bodies stay
// without one.
func (s *Session) assignBrain(b *entity.Body, profile config.CharacterProfile) error {
	if !b.Kind.Has(entity.KindCharacter) {
		return nil
	}

	var src entity.CommandSource
	switch {
	case s.opts.Override != nil:
		src = s.opts.Override
	case profile.Script != "":
		sb, err := s.loadScript(profile.Script)
		if err != nil {
			return fmt.Errorf("spawn %s: %w", b.Name, err)
		}
		src = sb
	case s.opts.Player != nil && b.Kind.Has(entity.KindFriendly):
		s.opts.Player.Join(b)
		src = b.Brain
	default:
		src = brain.Static{}
	}

	if s.opts.Recorder != nil {
		src = s.opts.Recorder.Wrap(src)
	}
	b.Brain = src
	return nil
}

func (s *Session) loadScript(name string) (*brain.ScriptBrain, error) {
	if s.opts.Scripts == nil {
		return nil, fmt.Errorf("script %s: no script loader", name)
	}
	src, err := s.opts.Scripts(name)
	if err != nil {
		return nil, err
	}
	sb, err := brain.NewScriptBrain(name, src)
	if err != nil {
		return nil, err
	}
	sb.OnError = s.opts.OnScriptError
	return sb, nil
}

// Step advances the session by one frame. Nothing moves unless the level
// is being played.
func (s *Session) Step(dt float64) {
	if !s.level.State().Running() {
		return
	}
	s.platforms.Update(dt)
	s.physics.Update(dt)
	s.combat.Update()
	s.shake.Update(dt)
	if s.opts.Recorder != nil {
		s.opts.Recorder.EndFrame()
	}
	s.frame++
}

// Fire shoots an arrow from the named body
func (s *Session) Fire(name string) (*entity.Body, error) {
	b := s.world.FindByName(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBody, name)
	}
	arrow, err := s.combat.Fire(b)
	if err != nil {
		return nil, err
	}
	if s.opts.Recorder != nil {
		s.opts.Recorder.RecordFire(name)
	}
	return arrow, nil
}

// PlayFrame loads the next recorded frame, repeats its shots and steps the
// session. It returns false once the replay ran out of frames.
func (s *Session) PlayFrame(r *replay.Replayer, dt float64) bool {
	if !r.Advance() {
		return false
	}
	for _, name := range r.Fires() {
		if _, err := s.Fire(name); err != nil {
			log.Printf("replay frame %d: fire: %v", r.CurrentFrame(), err)
		}
	}
	s.Step(dt)
	return true
}

// ReloadProfiles applies new tuning to every spawned body. Bodies whose
// profile disappeared keep their tuning.
func (s *Session) ReloadProfiles(profiles *config.ProfilesConfig) {
	s.cfg.Profiles = profiles
	for _, b := range s.world.Bodies() {
		name, ok := s.profiles[b]
		if !ok {
			continue
		}
		if p, err := profiles.Character(name); err == nil {
			b.Props = p.Props()
		}
	}
}

// ReloadScript recompiles a script and hands it to every body using it.
// Replays keep their recorded commands.
func (s *Session) ReloadScript(name string) error {
	if s.opts.Override != nil {
		return nil
	}
	for _, b := range s.world.Bodies() {
		pname, ok := s.profiles[b]
		if !ok {
			continue
		}
		p, err := s.cfg.Profiles.Character(pname)
		if err != nil || p.Script != name {
			continue
		}
		sb, err := s.loadScript(name)
		if err != nil {
			return err
		}
		var src entity.CommandSource = sb
		if s.opts.Recorder != nil {
			src = s.opts.Recorder.Wrap(src)
		}
		b.Brain = src
	}
	return nil
}

// Name returns the stage name
func (s *Session) Name() string { return s.name }

// Frame returns the number of frames stepped
func (s *Session) Frame() int { return s.frame }

// World returns the body registry
func (s *Session) World() *ecs.World { return s.world }

// Events returns the event bus of the session
func (s *Session) Events() *system.EventBus { return s.events }

// Physics returns the physics system
func (s *Session) Physics() *system.PhysicsSystem { return s.physics }

// Combat returns the combat system
func (s *Session) Combat() *system.CombatSystem { return s.combat }

// Level returns the level progress
func (s *Session) Level() *state.Level { return s.level }

// Shake returns the stage shake effect
func (s *Session) Shake() *fx.Shake { return s.shake }

// Body returns the named body or nil
func (s *Session) Body(name string) *entity.Body { return s.world.FindByName(name) }
