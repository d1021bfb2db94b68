package replay

import "github.com/younwookim/shine/internal/domain/entity"

// Replayer plays recorded commands back. It is the command source of
// every replayed body and looks bodies up by name.
type Replayer struct {
	data    ReplayData
	frame   int
	current FrameInput
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// Advance loads the next frame. It returns false once every frame was played.
func (r *Replayer) Advance() bool {
	if r.frame >= len(r.data.Frames) {
		r.current = FrameInput{}
		return false
	}
	r.current = r.data.Frames[r.frame]
	r.frame++
	return true
}

// Commands implements entity.CommandSource
func (r *Replayer) Commands(b *entity.Body) entity.Commands {
	return r.current.Bodies[b.Name].Commands()
}

// Fires returns the bodies that shot in the current frame
func (r *Replayer) Fires() []string {
	return r.current.Fire
}

// CurrentFrame returns the number of frames played so far
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Stage returns the stage the replay was recorded on
func (r *Replayer) Stage() string {
	return r.data.Stage
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
	r.current = FrameInput{}
}
