package sse_test

import (
	"bytes"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	sse.Init(rec)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))
	assert.True(t, rec.Flushed)
}

func TestWriter_Emit(t *testing.T) {
	t.Parallel()

	t.Run("frames events exactly", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := sse.NewWriter(&buf)

		require.NoError(t, w.Emit(scribe.EventError{Step: "outline-complete", Message: "failed"}))
		require.NoError(t, w.Emit(scribe.EventComplete{}))

		assert.Equal(t,
			"event: error\ndata: {\"error\":\"failed\",\"step\":\"outline-complete\"}\n\n"+
				"event: complete\ndata: {}\n\n",
			buf.String())
	})

	t.Run("flushes each frame", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		w := sse.NewWriter(rec)

		require.NoError(t, w.Emit(scribe.EventComplete{}))

		assert.True(t, rec.Flushed)
		assert.Equal(t, "event: complete\ndata: {}\n\n", rec.Body.String())
	})

	t.Run("encoding error", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		err := sse.NewWriter(&buf).Emit(scribe.EventStep{EventName: "x", ResultKey: "usage"})
		require.Error(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("write error", func(t *testing.T) {
		t.Parallel()
		err := sse.NewWriter(failingWriter{}).Emit(scribe.EventComplete{})
		assert.ErrorIs(t, err, io.ErrClosedPipe)
	})
}

func TestWriter_WriteFrame_MultiLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, sse.NewWriter(&buf).WriteFrame(sse.Frame{Event: "note", Data: "a\nb"}))
	assert.Equal(t, "event: note\ndata: a\ndata: b\n\n", buf.String())

	f, err := sse.NewReader(&buf).Next()
	require.NoError(t, err)
	assert.Equal(t, sse.Frame{Event: "note", Data: "a\nb"}, f)
}

func TestReader_Next(t *testing.T) {
	t.Parallel()

	t.Run("parses frames in order", func(t *testing.T) {
		t.Parallel()
		input := ": keepalive\n\n" +
			"event: research-complete\ndata: {\"research\":\"r\"}\n\n" +
			"event: error\ndata:{}\n\n" +
			"event: complete\ndata: {}\n\n"
		r := sse.NewReader(strings.NewReader(input))

		var frames []sse.Frame
		for {
			f, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			require.NoError(t, err)
			frames = append(frames, f)
		}

		assert.Equal(t, []sse.Frame{
			{Event: "research-complete", Data: `{"research":"r"}`},
			{Event: "error", Data: "{}"},
			{Event: "complete", Data: "{}"},
		}, frames)
	})

	t.Run("returns frame with empty data", func(t *testing.T) {
		t.Parallel()
		r := sse.NewReader(strings.NewReader("event: outline-complete\ndata: \n\n"))

		f, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, sse.Frame{Event: "outline-complete"}, f)
	})

	t.Run("trailing frame without blank line", func(t *testing.T) {
		t.Parallel()
		r := sse.NewReader(strings.NewReader("event: complete\ndata: {}"))

		f, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, "complete", f.Event)

		_, err = r.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("large payload", func(t *testing.T) {
		t.Parallel()
		big := strings.Repeat("x", 200*1024)
		r := sse.NewReader(strings.NewReader("event: content-complete\ndata: " + big + "\n\n"))

		f, err := r.Next()
		require.NoError(t, err)
		assert.Len(t, f.Data, len(big))
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }
