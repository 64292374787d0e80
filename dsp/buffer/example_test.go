package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/dsp/buffer"
)

func ExamplePool() {
	pool := buffer.NewPool()

	// A capture callback converts the device's float32 frames into a
	// pooled block and hands it to the analysis core.
	b := pool.Get(0, 0)
	b.LoadFloat32([]float32{0, 0.5, 0, -0.5}, 44100)

	fmt.Println(b.Samples(), b.SampleRate())
	pool.Put(b)

	// Output:
	// [0 0.5 0 -0.5] 44100
}
