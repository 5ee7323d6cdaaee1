// Package sse frames scribe events as server-sent events and parses them
// back.
//
// Each event is written as
//
//	event: <name>
//	data: <json>
//
// followed by a blank line.
package sse

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/fwojciec/scribe"
	scribejson "github.com/fwojciec/scribe/json"
)

// ContentType is the media type of an event stream.
const ContentType = "text/event-stream"

// maxFrameSize bounds a single line. Generated articles routinely exceed the
// bufio.Scanner default of 64KiB.
const maxFrameSize = 16 << 20

// Interface compliance check.
var _ scribe.Sink = (*Writer)(nil)

// Writer writes events to an io.Writer, flushing after every frame when the
// destination supports it. Writer is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	w       io.Writer
	flusher http.Flusher
}

// NewWriter creates a Writer. If w implements http.Flusher each frame is
// flushed immediately.
func NewWriter(w io.Writer) *Writer {
	f, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: f}
}

// Init sets the event-stream response headers and sends them. Call it once
// before the first Emit.
func Init(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", ContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// Emit encodes e and writes it as one frame.
func (w *Writer) Emit(e scribe.Event) error {
	name, data, err := scribejson.MarshalEvent(e)
	if err != nil {
		return fmt.Errorf("sse: %w", err)
	}
	return w.WriteFrame(Frame{Event: name, Data: string(data)})
}

// WriteFrame writes f. Multi-line data is split into one data line per line.
func (w *Writer) WriteFrame(f Frame) error {
	var b strings.Builder
	if f.Event != "" {
		b.WriteString("event: ")
		b.WriteString(f.Event)
		b.WriteByte('\n')
	}
	for _, line := range strings.Split(f.Data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.w, b.String()); err != nil {
		return fmt.Errorf("sse: write %s: %w", f.Event, err)
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}

// Frame is one parsed event. Data holds the joined data lines and may be
// empty.
type Frame struct {
	Event string
	Data  string
}

// Reader parses frames from an event stream.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	return &Reader{scanner: s}
}

// Next reads lines until a frame is complete and returns it. A frame with
// an event name but no data is returned with empty Data. Comment lines and
// unknown fields are ignored. Next returns io.EOF when the stream ends.
func (r *Reader) Next() (Frame, error) {
	var f Frame
	var data strings.Builder
	var seen, hasData bool

	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			if seen {
				f.Data = data.String()
				return f, nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			f.Event = value
			seen = true
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
			seen = true
		}
	}

	if err := r.scanner.Err(); err != nil {
		return Frame{}, fmt.Errorf("sse: %w", err)
	}
	if seen {
		f.Data = data.String()
		return f, nil
	}
	return Frame{}, io.EOF
}
