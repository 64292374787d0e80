package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(2400),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d period=%.0fms\n",
		cfg.SampleRate, cfg.BlockSize, cfg.BlockDuration()*1000)

	// Output:
	// sampleRate=48000 blockSize=2400 period=50ms
}

func ExampleFloat32To64() {
	buf := core.EnsureLen(nil, 3)
	n := core.Float32To64(buf, []float32{0.25, -0.5, 1})
	fmt.Println(n, buf)

	// Output:
	// 3 [0.25 -0.5 1]
}
