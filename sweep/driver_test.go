package sweep

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbench/bench"
	"github.com/arloliu/zbench/corpus"
	"github.com/arloliu/zbench/engine"
	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/format"
)

func quickRunner(t *testing.T) *bench.Runner {
	t.Helper()

	r, err := bench.NewRunner(bench.WithMinDuration(time.Nanosecond), bench.WithMaxIterations(2))
	require.NoError(t, err)

	return r
}

func textCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()

	c, err := corpus.New(corpus.Text(64<<10), corpus.KindRaw)
	require.NoError(t, err)

	return c
}

func newDriver(t *testing.T, handles []engine.Handle, opts ...Option) *Driver {
	t.Helper()

	reg, err := engine.NewRegistry(handles...)
	require.NoError(t, err)

	d, err := NewDriver(reg, quickRunner(t), opts...)
	require.NoError(t, err)
	require.Equal(t, StateIdle, d.State())

	return d
}

func builtinHandles() []engine.Handle {
	return []engine.Handle{
		engine.MustHandle(format.EngineStdlib),
		engine.MustHandle(format.EngineKlauspost),
	}
}

// failing returns an engine whose every call fails with an engine error.
func failing() engine.Engine {
	fail := func() error { return errors.Join(errs.ErrEngine, errors.New("internal state corrupted")) }

	return engine.Func{
		CompressFunc:   func([]byte, int) ([]byte, error) { return nil, fail() },
		DecompressFunc: func([]byte) ([]byte, error) { return nil, fail() },
	}
}

// counting wraps the stdlib engine and counts calls.
func counting(calls *atomic.Int64) engine.Engine {
	std := engine.NewStdlibEngine()

	return engine.Func{
		CompressFunc: func(data []byte, level int) ([]byte, error) {
			calls.Add(1)
			return std.Compress(data, level)
		},
		DecompressFunc: func(data []byte) ([]byte, error) {
			calls.Add(1)
			return std.Decompress(data)
		},
	}
}

// delayed wraps the stdlib engine and sleeps before every compression.
func delayed(d time.Duration) engine.Engine {
	std := engine.NewStdlibEngine()

	return engine.Func{
		CompressFunc: func(data []byte, level int) ([]byte, error) {
			time.Sleep(d)
			return std.Compress(data, level)
		},
		DecompressFunc: std.Decompress,
	}
}

// sourceFunc adapts a function into a corpus.Source.
type sourceFunc func() (*corpus.Corpus, error)

func (f sourceFunc) Load() (*corpus.Corpus, error) { return f() }

func TestNewDriver(t *testing.T) {
	reg := engine.DefaultRegistry()
	runner := quickRunner(t)

	_, err := NewDriver(nil, runner)
	require.ErrorIs(t, err, errs.ErrNoEngines)

	_, err = NewDriver(reg, nil)
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	_, err = NewDriver(reg, runner, WithParallelism(0))
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	_, err = NewDriver(reg, runner, WithLogger(nil))
	require.ErrorIs(t, err, errs.ErrConfiguration)

	d, err := NewDriver(reg, runner, WithParallelism(4), WithLogger(slog.Default()))
	require.NoError(t, err)
	require.Equal(t, 4, d.parallelism)
}

func TestDriver_DeflateAll(t *testing.T) {
	d := newDriver(t, builtinHandles())

	r, err := d.DeflateAll(context.Background(), textCorpus(t), 6)
	require.NoError(t, err)
	require.Equal(t, StateDone, d.State())

	require.Len(t, r.Rows, 2)
	require.Empty(t, r.Failures)
	require.Equal(t, "zlib-go", r.Rows[0].Label)
	require.Equal(t, "zlib-klauspost", r.Rows[1].Label)

	for _, row := range r.Rows {
		require.Equal(t, format.ModeCompress, row.Sample.Mode)
		require.Equal(t, 6, row.Sample.Level)
		require.Greater(t, row.Sample.Throughput(), 0.0)
	}

	completed, total := d.Progress()
	require.Equal(t, 2, completed)
	require.Equal(t, 2, total)
}

func TestDriver_InflateAll(t *testing.T) {
	data := corpus.Text(64 << 10)
	stream, err := engine.NewStdlibEngine().Compress(data, 6)
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		kind corpus.Kind
	}{
		{name: "raw corpus", data: data, kind: corpus.KindRaw},
		{name: "zlib corpus", data: stream, kind: corpus.KindZlib},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := corpus.New(tt.data, tt.kind)
			require.NoError(t, err)

			r, err := newDriver(t, builtinHandles()).InflateAll(context.Background(), c, 6)
			require.NoError(t, err)
			require.Len(t, r.Rows, 2)

			for _, row := range r.Rows {
				require.Equal(t, format.ModeDecompress, row.Sample.Mode)
				require.Equal(t, len(data), row.Sample.BytesPerCall)
			}
		})
	}
}

func TestDriver_SkipsFailingEngine(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	handles := []engine.Handle{
		engine.MustHandle(format.EngineStdlib),
		engine.CustomHandle("broken", failing()),
	}
	d := newDriver(t, handles, WithLogger(logger))

	r, err := d.DeflateAll(context.Background(), textCorpus(t), 6)
	require.NoError(t, err)

	require.Len(t, r.Rows, 1)
	require.Equal(t, "zlib-go", r.Rows[0].Label)

	require.Len(t, r.Failures, 1)
	require.Equal(t, "broken", r.Failures[0].Engine)
	require.Equal(t, 6, r.Failures[0].Level)
	require.ErrorIs(t, r.Failures[0].Err, errs.ErrEngine)

	require.Contains(t, logs.String(), "engine=broken")
	require.Contains(t, logs.String(), "level=6")
}

func TestDriver_ParallelKeepsOrder(t *testing.T) {
	handles := []engine.Handle{
		engine.CustomHandle("slow", delayed(30*time.Millisecond)),
		engine.CustomHandle("medium", delayed(10*time.Millisecond)),
		engine.CustomHandle("broken", failing()),
		engine.CustomHandle("fast", delayed(0)),
	}
	d := newDriver(t, handles, WithParallelism(len(handles)))

	r, err := d.DeflateAll(context.Background(), textCorpus(t), 1)
	require.NoError(t, err)

	got := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		got = append(got, row.Label)
	}
	require.Equal(t, []string{"slow", "medium", "fast"}, got)
	require.Len(t, r.Failures, 1)
}

func TestDriver_EmptyCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	var calls atomic.Int64
	d := newDriver(t, []engine.Handle{engine.CustomHandle("counting", counting(&calls))})

	r, err := d.DeflateAll(context.Background(), corpus.File{Path: path, Kind: corpus.KindRaw}, 6)
	require.ErrorIs(t, err, errs.ErrCorpusLoad)
	require.Nil(t, r)
	require.Zero(t, calls.Load())
	require.Equal(t, StateDone, d.State())
}

func TestDriver_SourceErrorsAreCorpusErrors(t *testing.T) {
	src := sourceFunc(func() (*corpus.Corpus, error) { return nil, errors.New("disk on fire") })

	_, err := newDriver(t, builtinHandles()).DeflateAll(context.Background(), src, 6)
	require.ErrorIs(t, err, errs.ErrCorpusLoad)
	require.Contains(t, err.Error(), "disk on fire")

	empty := sourceFunc(func() (*corpus.Corpus, error) { return nil, nil })
	_, err = newDriver(t, builtinHandles()).DeflateAll(context.Background(), empty, 6)
	require.ErrorIs(t, err, errs.ErrEmptyCorpus)
}

func TestDriver_InvalidLevel(t *testing.T) {
	for _, level := range []int{0, 10, -1} {
		var calls atomic.Int64
		loaded := false
		src := sourceFunc(func() (*corpus.Corpus, error) {
			loaded = true
			return corpus.New([]byte("data"), corpus.KindRaw)
		})

		d := newDriver(t, []engine.Handle{engine.CustomHandle("counting", counting(&calls))})

		_, err := d.DeflateAll(context.Background(), src, level)
		require.ErrorIs(t, err, errs.ErrConfiguration, "level %d", level)

		_, err = d.InflateAll(context.Background(), src, level)
		require.ErrorIs(t, err, errs.ErrInvalidLevel, "level %d", level)

		_, err = d.Levels(context.Background(), src, []int{1, level})
		require.ErrorIs(t, err, errs.ErrInvalidLevel, "level %d", level)

		require.False(t, loaded)
		require.Zero(t, calls.Load())
		require.Equal(t, StateIdle, d.State())
	}
}

func TestDriver_Levels(t *testing.T) {
	d := newDriver(t, builtinHandles())

	r, err := d.Levels(context.Background(), textCorpus(t), []int{1, 9})
	require.NoError(t, err)

	got := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		got = append(got, row.Label)
	}
	require.Equal(t, []string{
		"zlib-go level 1",
		"zlib-go level 9",
		"zlib-klauspost level 1",
		"zlib-klauspost level 9",
	}, got)

	_, err = newDriver(t, builtinHandles()).Levels(context.Background(), textCorpus(t), nil)
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestDriver_Run(t *testing.T) {
	h := engine.MustHandle(format.EngineKlauspost)
	cfgs := []bench.Configuration{
		{Engine: h, Level: 3, Mode: format.ModeCompress},
		{Engine: h, Level: 3, Mode: format.ModeDecompress},
	}

	r, err := newDriver(t, builtinHandles()).Run(context.Background(), textCorpus(t), cfgs)
	require.NoError(t, err)
	require.Len(t, r.Rows, 2)
	require.Equal(t, "zlib-klauspost compress", r.Rows[0].Label)
	require.Equal(t, "zlib-klauspost decompress", r.Rows[1].Label)

	_, err = newDriver(t, builtinHandles()).Run(context.Background(), textCorpus(t), nil)
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	bad := []bench.Configuration{{Engine: h, Level: 12, Mode: format.ModeCompress}}
	_, err = newDriver(t, builtinHandles()).Run(context.Background(), textCorpus(t), bad)
	require.ErrorIs(t, err, errs.ErrInvalidLevel)
}

func TestDriver_SingleShot(t *testing.T) {
	d := newDriver(t, builtinHandles())

	_, err := d.DeflateAll(context.Background(), textCorpus(t), 6)
	require.NoError(t, err)

	_, err = d.DeflateAll(context.Background(), textCorpus(t), 6)
	require.ErrorIs(t, err, errs.ErrSweepFinished)
	require.Equal(t, StateDone, d.State())
}

func TestDriver_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newDriver(t, builtinHandles())
	r, err := d.DeflateAll(ctx, textCorpus(t), 6)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, r)
	require.Equal(t, StateDone, d.State())
}

func TestState_String(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "loading", StateLoading.String())
	require.Equal(t, "running", StateRunning.String())
	require.Equal(t, "done", StateDone.String())
	require.Equal(t, "Unknown", State(9).String())
}

func TestDriver_SkipsEnginesWithPlainErrorsAndPanics(t *testing.T) {
	plain := engine.Func{
		CompressFunc:   func([]byte, int) ([]byte, error) { return nil, errors.New("boom") },
		DecompressFunc: engine.NewStdlibEngine().Decompress,
	}
	panicking := engine.Func{
		CompressFunc: func([]byte, int) ([]byte, error) {
			var m map[string]int
			m["level"] = 6
			return nil, nil
		},
		DecompressFunc: engine.NewStdlibEngine().Decompress,
	}

	for _, parallelism := range []int{1, 3} {
		handles := []engine.Handle{
			engine.MustHandle(format.EngineStdlib),
			engine.CustomHandle("plain", plain),
			engine.CustomHandle("panicking", panicking),
		}
		d := newDriver(t, handles, WithParallelism(parallelism))

		r, err := d.DeflateAll(context.Background(), textCorpus(t), 6)
		require.NoError(t, err, "parallelism %d", parallelism)

		require.Len(t, r.Rows, 1)
		require.Equal(t, "zlib-go", r.Rows[0].Label)

		require.Len(t, r.Failures, 2)
		require.Equal(t, "plain", r.Failures[0].Engine)
		require.Equal(t, "panicking", r.Failures[1].Engine)
		for _, f := range r.Failures {
			require.ErrorIs(t, f.Err, errs.ErrEngine)
		}
	}
}

func TestDriver_Current(t *testing.T) {
	var (
		d    *Driver
		seen []int
	)

	std := engine.NewStdlibEngine()
	observe := func(data []byte, level int) ([]byte, error) {
		index, ok := d.Current()
		if !ok {
			index = -1
		}
		seen = append(seen, index)
		return std.Compress(data, level)
	}

	handles := []engine.Handle{
		engine.CustomHandle("first", engine.Func{CompressFunc: observe, DecompressFunc: std.Decompress}),
		engine.CustomHandle("second", engine.Func{CompressFunc: observe, DecompressFunc: std.Decompress}),
	}
	d = newDriver(t, handles)

	_, ok := d.Current()
	require.False(t, ok)

	_, err := d.DeflateAll(context.Background(), textCorpus(t), 6)
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	require.NotContains(t, seen, -1)
	require.Equal(t, 0, seen[0])
	require.Equal(t, 1, seen[len(seen)-1])

	_, ok = d.Current()
	require.False(t, ok)
}
