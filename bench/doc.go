// Package bench measures the throughput of one engine configuration.
//
// A Configuration names an engine handle, a compression level and a mode.
// A Runner executes the configuration against a corpus and returns a
// Sample:
//
//	runner, err := bench.NewRunner(bench.WithMinDuration(500 * time.Millisecond))
//	if err != nil {
//		return err
//	}
//
//	sample, err := runner.Run(ctx, bench.Configuration{
//		Engine: engine.MustHandle(format.EngineKlauspost),
//		Level:  6,
//		Mode:   format.ModeCompress,
//	}, c)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%s: %.2f MB/s\n", sample.Engine, sample.Throughput())
//
// Throughput is always computed from the uncompressed size, so compress
// and decompress figures for the same corpus are directly comparable.
// Preparation, the round-trip check and one warm-up call run before the
// clock starts.
package bench
