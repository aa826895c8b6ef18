// Package replay records the intents fed to a simulation, one frame per
// change, and plays them back tick by tick.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gajop/pinkskins/engine/core"
)

// ErrVersion is returned when a recording was written by another format
var ErrVersion = errors.New("unsupported replay version")

// Recorder writes a header followed by a frame whenever intents change
type Recorder struct {
	closer io.Closer
	writer *bufio.Writer
	enc    *msgpack.Encoder
	last   Frame
	frames int
}

// NewRecorder starts a recording on w
func NewRecorder(w io.Writer, h Header) (*Recorder, error) {
	h.Version = FormatVersion
	bw := bufio.NewWriter(w)
	r := &Recorder{writer: bw, enc: msgpack.NewEncoder(bw)}
	if err := r.enc.Encode(&h); err != nil {
		return nil, fmt.Errorf("write replay header: %w", err)
	}
	return r, nil
}

// CreateRecorder starts a recording in a new file
func CreateRecorder(path string, h Header) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create replay: %w", err)
	}
	r, err := NewRecorder(f, h)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// Record notes the intents used at tick. Unchanged intents are skipped.
func (r *Recorder) Record(tick uint64, in core.Intents) error {
	f := FrameOf(tick, in)
	if r.frames > 0 && f.sameInput(r.last) {
		return nil
	}
	if r.frames == 0 && f.sameInput(Frame{}) {
		// Idle start needs no frame; playback defaults to zero intents
		r.last = f
		return nil
	}
	if err := r.enc.Encode(&f); err != nil {
		return fmt.Errorf("write replay frame %d: %w", tick, err)
	}
	r.last = f
	r.frames++
	return nil
}

// Frames returns how many frames were written
func (r *Recorder) Frames() int { return r.frames }

// Close flushes and closes the recording
func (r *Recorder) Close() error {
	if err := r.writer.Flush(); err != nil {
		return err
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Replay is a loaded recording
type Replay struct {
	Header Header
	Frames []Frame // ascending by tick
}

// Decode reads a full recording
func Decode(rd io.Reader) (*Replay, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(rd))
	rp := &Replay{}
	if err := dec.Decode(&rp.Header); err != nil {
		return nil, fmt.Errorf("read replay header: %w", err)
	}
	if rp.Header.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rp.Header.Version)
	}
	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read replay frame %d: %w", len(rp.Frames), err)
		}
		rp.Frames = append(rp.Frames, f)
	}
	return rp, nil
}

// Load reads a recording from a file
func Load(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// IntentsAt returns the intents in effect at tick
func (r *Replay) IntentsAt(tick uint64) core.Intents {
	i := sort.Search(len(r.Frames), func(i int) bool { return r.Frames[i].Tick > tick })
	if i == 0 {
		return core.Intents{}
	}
	return r.Frames[i-1].Intents()
}

// LastTick is the tick of the final recorded change
func (r *Replay) LastTick() uint64 {
	if len(r.Frames) == 0 {
		return 0
	}
	return r.Frames[len(r.Frames)-1].Tick
}
