package assets

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upperLoader = LoaderFunc(func(_ *LoadContext, data []byte) (any, error) {
	return strings.ToUpper(string(data)), nil
})

func newTextServer(files fstest.MapFS, opts ...ServerOption) *Server {
	opts = append([]ServerOption{WithLoader(".txt", upperLoader)}, opts...)
	return NewServer(NewFSSource(files), opts...)
}

func TestLoadDedupsByPath(t *testing.T) {
	s := newTextServer(fstest.MapFS{"a.txt": {Data: []byte("a")}})

	first := s.Load("a.txt")
	second := s.Load("/a.txt")
	assert.Equal(t, first, second)
	assert.NotZero(t, first)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.Pending())
}

func TestLoadDoesNotBlock(t *testing.T) {
	s := newTextServer(fstest.MapFS{"a.txt": {Data: []byte("hello")}})

	id := s.Load("a.txt")
	assert.Equal(t, Loading, s.State(id))
	_, ok := s.Value(id)
	assert.False(t, ok)

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, Loaded, s.State(id))
	v, ok := s.Value(id)
	require.True(t, ok)
	assert.Equal(t, "HELLO", v)
	assert.Equal(t, 0, s.Pending())
}

func TestLoadFailures(t *testing.T) {
	s := newTextServer(fstest.MapFS{"a.bin": {Data: []byte{1}}})

	noLoader := s.Load("a.bin")
	missing := s.Load("gone.txt")
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, Failed, s.State(noLoader))
	assert.True(t, eris.Is(s.Err(noLoader), ErrNoLoader))
	assert.Equal(t, Failed, s.State(missing))
	assert.True(t, eris.Is(s.Err(missing), ErrNotFound))
}

func TestZeroID(t *testing.T) {
	s := newTextServer(fstest.MapFS{})
	assert.Equal(t, Unloaded, s.State(0))
	state, err := s.Wait(context.Background(), 0)
	assert.NoError(t, err)
	assert.Equal(t, Unloaded, state)
	assert.Equal(t, Unloaded, s.State(99))
}

func TestLongestExtensionWins(t *testing.T) {
	s := NewServer(NewFSSource(fstest.MapFS{
		"ui/menu.ATLAS.JSON": {Data: []byte("atlas")},
		"ui/data.json":       {Data: []byte("plain")},
	}))
	s.RegisterLoader("json", RawLoader)
	s.RegisterLoader(".Atlas.Json", upperLoader)

	atlas := s.Load("ui/menu.ATLAS.JSON")
	plain := s.Load("ui/data.json")
	require.NoError(t, s.Flush(context.Background()))

	v, ok := s.Value(atlas)
	require.True(t, ok)
	assert.Equal(t, "ATLAS", v)
	v, ok = s.Value(plain)
	require.True(t, ok)
	assert.Equal(t, []byte("plain"), v)
}

func TestStartAndWait(t *testing.T) {
	files := fstest.MapFS{}
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"} {
		files[name] = &fstest.MapFile{Data: []byte(name)}
	}
	s := newTextServer(files, WithWorkers(3))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	var ids []ID
	for name := range files {
		ids = append(ids, s.Load(name))
	}
	wctx, wcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer wcancel()
	for _, id := range ids {
		state, err := s.Wait(wctx, id)
		require.NoError(t, err)
		assert.Equal(t, Loaded, state)
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWaitCancelled(t *testing.T) {
	s := newTextServer(fstest.MapFS{"a.txt": {Data: []byte("a")}})
	id := s.Load("a.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state, err := s.Wait(ctx, id)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Loading, state)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	s := newTextServer(fstest.MapFS{"a.txt": {Data: []byte("a")}}, WithMetrics(m))

	s.Load("a.txt")
	s.Load("a.txt")
	s.Load("b.txt")
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("txt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("txt", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("txt", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "failed", Failed.String())
}
