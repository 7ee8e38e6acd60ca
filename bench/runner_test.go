package bench

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbench/corpus"
	"github.com/arloliu/zbench/engine"
	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/format"
)

const tenMB = 10 * 1000 * 1000

func quickRunner(t *testing.T) *Runner {
	t.Helper()

	r, err := NewRunner(WithMinDuration(time.Nanosecond), WithMaxIterations(2))
	require.NoError(t, err)

	return r
}

func rawCorpus(t *testing.T, data []byte) *corpus.Corpus {
	t.Helper()

	c, err := corpus.New(data, corpus.KindRaw)
	require.NoError(t, err)

	return c
}

func stdlibConfig(mode format.Mode, level int) Configuration {
	return Configuration{Engine: engine.MustHandle(format.EngineStdlib), Level: level, Mode: mode}
}

func TestNewRunner(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r, err := NewRunner()
		require.NoError(t, err)
		require.Equal(t, DefaultMinDuration, r.MinDuration())
		require.Equal(t, DefaultMaxIterations, r.MaxIterations())
	})

	t.Run("custom", func(t *testing.T) {
		r, err := NewRunner(WithMinDuration(time.Millisecond), WithMaxIterations(3))
		require.NoError(t, err)
		require.Equal(t, time.Millisecond, r.MinDuration())
		require.Equal(t, 3, r.MaxIterations())
	})

	tests := []struct {
		name string
		opt  RunnerOption
	}{
		{name: "zero duration", opt: WithMinDuration(0)},
		{name: "negative duration", opt: WithMinDuration(-time.Second)},
		{name: "zero iterations", opt: WithMaxIterations(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(tt.opt)
			require.ErrorIs(t, err, errs.ErrInvalidOption)
			require.ErrorIs(t, err, errs.ErrConfiguration)
		})
	}
}

func TestConfiguration_Validate(t *testing.T) {
	handle := engine.MustHandle(format.EngineStdlib)

	tests := []struct {
		name string
		cfg  Configuration
		want error
	}{
		{name: "valid compress", cfg: Configuration{Engine: handle, Level: 1, Mode: format.ModeCompress}},
		{name: "valid decompress", cfg: Configuration{Engine: handle, Level: 9, Mode: format.ModeDecompress}},
		{name: "level zero", cfg: Configuration{Engine: handle, Level: 0, Mode: format.ModeCompress}, want: errs.ErrInvalidLevel},
		{name: "level ten", cfg: Configuration{Engine: handle, Level: 10, Mode: format.ModeCompress}, want: errs.ErrInvalidLevel},
		{name: "no mode", cfg: Configuration{Engine: handle, Level: 6}, want: errs.ErrInvalidMode},
		{name: "no engine", cfg: Configuration{Level: 6, Mode: format.ModeCompress}, want: errs.ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, errs.ErrConfiguration)
		})
	}
}

func TestConfiguration_String(t *testing.T) {
	require.Equal(t, "zlib-go/compress/level=6", stdlibConfig(format.ModeCompress, 6).String())
}

func TestRunner_Run_Compress(t *testing.T) {
	r := quickRunner(t)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "random 10MB", data: corpus.Random(tenMB, 1)},
		{name: "repeated 10MB", data: corpus.Repeated(tenMB, 'a')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := r.Run(context.Background(), stdlibConfig(format.ModeCompress, 6), rawCorpus(t, tt.data))
			require.NoError(t, err)
			require.Equal(t, "zlib-go", s.Engine)
			require.Equal(t, format.ModeCompress, s.Mode)
			require.Equal(t, 6, s.Level)
			require.Equal(t, tenMB, s.BytesPerCall)
			require.GreaterOrEqual(t, s.Iterations, 1)
			require.LessOrEqual(t, s.Iterations, 2)
			require.Positive(t, s.Elapsed)
			require.Greater(t, s.Throughput(), 0.0)
		})
	}
}

func TestRunner_Run_Decompress(t *testing.T) {
	r := quickRunner(t)
	data := corpus.Text(1 << 20)

	s, err := r.Run(context.Background(), stdlibConfig(format.ModeDecompress, 6), rawCorpus(t, data))
	require.NoError(t, err)
	require.Equal(t, len(data), s.BytesPerCall)
	require.Less(t, s.CompressedSize, len(data))
	require.Less(t, s.CompressionRatio(), 1.0)
	require.Greater(t, s.Throughput(), 0.0)
}

func TestRunner_Run_DecompressZlibCorpus(t *testing.T) {
	r := quickRunner(t)
	data := corpus.Text(256 << 10)

	stream, err := engine.NewStdlibEngine().Compress(data, 9)
	require.NoError(t, err)

	c, err := corpus.New(stream, corpus.KindZlib)
	require.NoError(t, err)

	for _, h := range engine.DefaultRegistry().Handles() {
		t.Run(h.Name, func(t *testing.T) {
			s, err := r.Run(context.Background(), Configuration{Engine: h, Level: 6, Mode: format.ModeDecompress}, c)
			require.NoError(t, err)
			require.Equal(t, len(data), s.BytesPerCall)
			require.Equal(t, len(stream), s.CompressedSize)
		})
	}
}

func TestRunner_Run_CompressRejectsZlibCorpus(t *testing.T) {
	stream, err := engine.NewStdlibEngine().Compress([]byte("hello hello hello"), 6)
	require.NoError(t, err)

	c, err := corpus.New(stream, corpus.KindZlib)
	require.NoError(t, err)

	_, err = quickRunner(t).Run(context.Background(), stdlibConfig(format.ModeCompress, 6), c)
	require.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestRunner_Run_InvalidInput(t *testing.T) {
	r := quickRunner(t)
	c := rawCorpus(t, []byte("data"))

	_, err := r.Run(context.Background(), stdlibConfig(format.ModeCompress, 0), c)
	require.ErrorIs(t, err, errs.ErrInvalidLevel)

	_, err = r.Run(context.Background(), stdlibConfig(format.ModeCompress, 10), c)
	require.ErrorIs(t, err, errs.ErrInvalidLevel)

	_, err = r.Run(context.Background(), stdlibConfig(format.ModeCompress, 6), nil)
	require.ErrorIs(t, err, errs.ErrEmptyCorpus)
}

func TestRunner_Run_EngineFailures(t *testing.T) {
	std := engine.NewStdlibEngine()
	boom := errors.New("boom")

	tests := []struct {
		name string
		eng  engine.Engine
		mode format.Mode
		want error
	}{
		{
			name: "compress error",
			eng: engine.Func{
				CompressFunc:   func([]byte, int) ([]byte, error) { return nil, boom },
				DecompressFunc: std.Decompress,
			},
			mode: format.ModeCompress,
			want: boom,
		},
		{
			name: "round trip mismatch",
			eng: engine.Func{
				CompressFunc: std.Compress,
				DecompressFunc: func(data []byte) ([]byte, error) {
					out, err := std.Decompress(data)
					if err == nil && len(out) > 0 {
						out[0] ^= 0xFF
					}
					return out, err
				},
			},
			mode: format.ModeDecompress,
			want: errs.ErrRoundTrip,
		},
		{
			name: "missing decompress",
			eng:  engine.Func{CompressFunc: std.Compress},
			mode: format.ModeCompress,
			want: errs.ErrEngine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Configuration{Engine: engine.CustomHandle("broken", tt.eng), Level: 6, Mode: tt.mode}
			_, err := quickRunner(t).Run(context.Background(), cfg, rawCorpus(t, corpus.Text(4096)))
			require.ErrorIs(t, err, tt.want)
			require.Contains(t, err.Error(), "broken")
		})
	}
}

func TestRunner_Run_ShortOutput(t *testing.T) {
	std := engine.NewStdlibEngine()

	var calls atomic.Int32
	eng := engine.Func{
		CompressFunc: std.Compress,
		DecompressFunc: func(data []byte) ([]byte, error) {
			out, err := std.Decompress(data)
			// Round-trip check and warm-up succeed, the timed loop does not.
			if calls.Add(1) > 2 && err == nil {
				out = out[:len(out)/2]
			}
			return out, err
		},
	}

	cfg := Configuration{Engine: engine.CustomHandle("short", eng), Level: 6, Mode: format.ModeDecompress}
	_, err := quickRunner(t).Run(context.Background(), cfg, rawCorpus(t, corpus.Text(4096)))
	require.ErrorIs(t, err, errs.ErrShortOutput)
	require.ErrorIs(t, err, errs.ErrEngine)
}

func TestRunner_Run_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quickRunner(t).Run(ctx, stdlibConfig(format.ModeCompress, 1), rawCorpus(t, corpus.Text(1024)))
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, errs.ErrEngine)
}

func TestRunner_Run_MaxIterationsBound(t *testing.T) {
	r, err := NewRunner(WithMinDuration(time.Hour), WithMaxIterations(5))
	require.NoError(t, err)

	s, err := r.Run(context.Background(), stdlibConfig(format.ModeCompress, 1), rawCorpus(t, []byte("tiny input")))
	require.NoError(t, err)
	require.Equal(t, 5, s.Iterations)
}

func TestRunner_Run_ClassifiesAllEngineFailures(t *testing.T) {
	std := engine.NewStdlibEngine()

	tests := []struct {
		name    string
		eng     engine.Engine
		mode    format.Mode
		message string
	}{
		{
			name: "plain compress error",
			eng: engine.Func{
				CompressFunc:   func([]byte, int) ([]byte, error) { return nil, errors.New("boom") },
				DecompressFunc: std.Decompress,
			},
			mode:    format.ModeCompress,
			message: "boom",
		},
		{
			name: "plain decompress error",
			eng: engine.Func{
				CompressFunc:   std.Compress,
				DecompressFunc: func([]byte) ([]byte, error) { return nil, errors.New("bad stream") },
			},
			mode:    format.ModeDecompress,
			message: "bad stream",
		},
		{
			name: "compress panic",
			eng: engine.Func{
				CompressFunc: func([]byte, int) ([]byte, error) {
					var m map[string]int
					m["x"] = 1
					return nil, nil
				},
				DecompressFunc: std.Decompress,
			},
			mode:    format.ModeCompress,
			message: "panic",
		},
		{
			name: "decompress panic",
			eng: engine.Func{
				CompressFunc:   std.Compress,
				DecompressFunc: func([]byte) ([]byte, error) { panic("inflate state corrupted") },
			},
			mode:    format.ModeDecompress,
			message: "inflate state corrupted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Configuration{Engine: engine.CustomHandle("custom", tt.eng), Level: 6, Mode: tt.mode}

			_, err := quickRunner(t).Run(context.Background(), cfg, rawCorpus(t, corpus.Text(4096)))
			require.ErrorIs(t, err, errs.ErrEngine)
			require.NotErrorIs(t, err, errs.ErrConfiguration)
			require.Contains(t, err.Error(), tt.message)
		})
	}
}
