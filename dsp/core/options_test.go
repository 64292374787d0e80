package core

import "testing"

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(48000), WithBlockSize(4096))
	if cfg.SampleRate != 48000 {
		t.Fatalf("sample rate = %v, want 48000", cfg.SampleRate)
	}
	if cfg.BlockSize != 4096 {
		t.Fatalf("block size = %d, want 4096", cfg.BlockSize)
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(0), WithBlockSize(-1), nil)
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}

func TestBlockDuration(t *testing.T) {
	cfg := DefaultProcessorConfig()
	got := cfg.BlockDuration()
	if !NearlyEqual(got, 2048.0/44100.0, 1e-12) {
		t.Fatalf("BlockDuration() = %v, want %v", got, 2048.0/44100.0)
	}

	if (ProcessorConfig{}).BlockDuration() != 0 {
		t.Fatal("expected 0 duration for zero config")
	}
}
