// Package replay records games as zstd-compressed JSON lines and plays them
// back onto a board.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// Event types.
const (
	EventStart = "start"
	EventSpawn = "spawn"
	EventTilt  = "tilt"
)

// Extension is the file extension of a recording.
const Extension = ".jsonl.zst"

// Event is one line of a recording.
type Event struct {
	Type string    `json:"type"`
	Time time.Time `json:"time"`

	// start
	ID   string `json:"id,omitempty"`
	Size int    `json:"size,omitempty"`
	Seed int64  `json:"seed,omitempty"`

	// spawn
	Value int `json:"value,omitempty"`
	Col   int `json:"col,omitempty"`
	Row   int `json:"row,omitempty"`

	// tilt
	Side    string `json:"side,omitempty"`
	Changed bool   `json:"changed,omitempty"`
}

// Writer appends events to a recording file. It implements t2048.Recorder.
type Writer struct {
	id   string
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

var _ t2048.Recorder = (*Writer)(nil)

// NewRecording creates a new recording in dir named after a fresh id.
func NewRecording(dir string) (*Writer, error) {
	id := uuid.NewString()
	return create(filepath.Join(dir, id+Extension), id)
}

// Create starts a recording at path, truncating any existing file.
func Create(path string) (*Writer, error) {
	return create(path, uuid.NewString())
}

func create(path, id string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("replay: cannot create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot create %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("replay: cannot start compressor: %w", err)
	}
	return &Writer{
		id:   id,
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 32*1024),
	}, nil
}

// ID returns the recording id written into every start event.
func (w *Writer) ID() string { return w.id }

// Path returns the file the recording is written to.
func (w *Writer) Path() string { return w.path }

// RecordStart writes a start event. Every game in the file begins with one.
func (w *Writer) RecordStart(size int, seed int64) error {
	return w.write(Event{Type: EventStart, ID: w.id, Size: size, Seed: seed})
}

// RecordSpawn writes the value and position of a newly placed tile.
func (w *Writer) RecordSpawn(t *t2048.Tile) error {
	return w.write(Event{Type: EventSpawn, Value: t.Value(), Col: t.Col(), Row: t.Row()})
}

// RecordTilt writes a tilt and whether it changed the board.
func (w *Writer) RecordTilt(side t2048.Side, changed bool) error {
	return w.write(Event{Type: EventTilt, Side: side.String(), Changed: changed})
}

func (w *Writer) write(e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return errors.New("replay: write to closed recording")
	}
	e.Time = time.Now().UTC()
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("replay: cannot encode event: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("replay: cannot write event: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("replay: cannot write event: %w", err)
	}
	return nil
}

// Close flushes and closes the recording. It is safe to call more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return nil
	}
	err := w.w.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.w, w.enc, w.f = nil, nil, nil
	if err != nil {
		return fmt.Errorf("replay: cannot close %s: %w", w.path, err)
	}
	return nil
}

// Read loads every event from a recording.
func Read(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot start decompressor: %w", err)
	}
	defer dec.Close()

	var events []Event
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("replay: %s line %d: %w", path, line, err)
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("replay: cannot read %s: %w", path, err)
	}
	return events, nil
}

// Apply replays events onto b. A start event clears the board; its size must
// match. Each tilt must change the board exactly when the recording says it
// did. onEvent, if not nil, is called after each event is applied.
func Apply(b *t2048.Board, events []Event, onEvent func(Event)) error {
	for i, e := range events {
		switch e.Type {
		case EventStart:
			if e.Size != b.Size() {
				return fmt.Errorf("replay: event %d: recording is %dx%d, board is %dx%d", i, e.Size, e.Size, b.Size(), b.Size())
			}
			b.Clear()
		case EventSpawn:
			if e.Value <= 0 {
				return fmt.Errorf("replay: event %d: spawn value %d is not positive", i, e.Value)
			}
			if e.Col < 0 || e.Col >= b.Size() || e.Row < 0 || e.Row >= b.Size() {
				return fmt.Errorf("replay: event %d: spawn at (%d, %d) is off the board", i, e.Col, e.Row)
			}
			if prev := b.Tile(e.Col, e.Row); prev != nil {
				return fmt.Errorf("replay: event %d: spawn at (%d, %d) hits %v", i, e.Col, e.Row, prev)
			}
			b.AddTile(t2048.NewTile(e.Value, e.Col, e.Row))
		case EventTilt:
			side, err := t2048.ParseSide(e.Side)
			if err != nil {
				return fmt.Errorf("replay: event %d: %w", i, err)
			}
			if changed := b.Tilt(side); changed != e.Changed {
				return fmt.Errorf("replay: event %d: tilt %s changed=%v, recorded %v", i, side, changed, e.Changed)
			}
		default:
			return fmt.Errorf("replay: event %d: unknown type %q", i, e.Type)
		}
		if onEvent != nil {
			onEvent(e)
		}
	}
	return nil
}

// Start returns the first start event, which fixes the board size.
func Start(events []Event) (Event, error) {
	for _, e := range events {
		if e.Type == EventStart {
			return e, nil
		}
	}
	return Event{}, errors.New("replay: recording has no start event")
}
