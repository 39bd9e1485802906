// Package record turns the frames captured while a scenario runs into an
// animated GIF with a drawn cursor, for debugging failed runs.
package record

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// Options configures recording
type Options struct {
	Dir        string
	MaxWidth   uint // Output width, 800 when zero
	StepDelay  int  // How long each captured step stays on screen, in 100ths of a second
	MoveFrames int  // Frames used to glide the cursor between steps
}

// Mark is the cursor state drawn on a frame
type Mark struct {
	Point image.Point
	Click bool
}

// Recorder buffers one scenario's frames at a time
type Recorder struct {
	opts Options

	mu     sync.Mutex
	frames []image.Image
	marks  []Mark
}

// New returns a recorder writing into opts.Dir.
func New(opts Options) (*Recorder, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("record dir required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create record dir: %w", err)
	}
	if opts.MaxWidth == 0 {
		opts.MaxWidth = 800
	}
	if opts.StepDelay == 0 {
		opts.StepDelay = 80
	}
	if opts.MoveFrames == 0 {
		opts.MoveFrames = 6
	}
	return &Recorder{opts: opts}, nil
}

// Begin starts buffering frames for a scenario.
func (r *Recorder) Begin(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
	r.marks = nil
}

// Frame adds a screenshot and the cursor state at the time it was taken.
func (r *Recorder) Frame(img image.Image, cursor image.Point, click bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, img)
	r.marks = append(r.marks, Mark{Point: cursor, Click: click})
}

// End writes the buffered frames to <dir>/<name>.gif. A scenario with no
// frames writes nothing.
func (r *Recorder) End(name string) error {
	r.mu.Lock()
	frames, marks := r.frames, r.marks
	r.frames, r.marks = nil, nil
	r.mu.Unlock()

	if len(frames) == 0 {
		return nil
	}

	out, delays := Animate(frames, marks, r.opts.MoveFrames, r.opts.StepDelay)
	path := filepath.Join(r.opts.Dir, FileName(name))
	if _, err := Generate(out, delays, path, r.opts.MaxWidth); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName maps a scenario name to its GIF file name.
func FileName(scenario string) string {
	name := unsafeChars.ReplaceAllString(scenario, "_")
	if name == "" {
		name = "scenario"
	}
	return name + ".gif"
}
