package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/younwookim/shine/internal/domain/entity"
)

// ErrNoFrames is returned when saving an empty recording
var ErrNoFrames = errors.New("no frames to save")

// Recorder captures the commands every wrapped source hands out
type Recorder struct {
	data      ReplayData
	recording bool
	frame     FrameInput
}

// NewRecorder creates a recorder for a session on stage
func NewRecorder(stage string) *Recorder {
	return &Recorder{
		data: ReplayData{
			Version:   Version,
			Stage:     stage,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameInput, 0, 3600), // ~1 minute at 60fps
		},
		recording: true,
	}
}

// Wrap returns a command source that records what src returns
func (r *Recorder) Wrap(src entity.CommandSource) entity.CommandSource {
	return &recordingSource{rec: r, src: src}
}

type recordingSource struct {
	rec *Recorder
	src entity.CommandSource
}

func (s *recordingSource) Commands(b *entity.Body) entity.Commands {
	cmd := s.src.Commands(b)
	s.rec.capture(b.Name, cmd)
	return cmd
}

// capture keeps the last commands name received in the current frame
func (r *Recorder) capture(name string, cmd entity.Commands) {
	if !r.recording {
		return
	}
	if cmd == (entity.Commands{}) {
		delete(r.frame.Bodies, name)
		return
	}
	if r.frame.Bodies == nil {
		r.frame.Bodies = make(map[string]BodyInput)
	}
	r.frame.Bodies[name] = FromCommands(cmd)
}

// RecordFire notes that name shot an arrow in the current frame
func (r *Recorder) RecordFire(name string) {
	if !r.recording {
		return
	}
	r.frame.Fire = append(r.frame.Fire, name)
}

// EndFrame closes the current frame. Call it once per physics update.
func (r *Recorder) EndFrame() {
	if !r.recording {
		return
	}
	r.frame.F = len(r.data.Frames)
	r.data.Frames = append(r.data.Frames, r.frame)
	r.frame = FrameInput{}
}

// Save writes the recording, JSON or msgpack by extension
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return ErrNoFrames
	}
	if err := SaveReplay(filename, &r.data); err != nil {
		return fmt.Errorf("save replay: %w", err)
	}
	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// Data returns the recording so far
func (r *Recorder) Data() ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename(ext string) string {
	return fmt.Sprintf("replay_%s%s", time.Now().Format("20060102_150405"), ext)
}
