package pitch

// Outcome classifies a single estimate.
type Outcome int

const (
	// Voiced: a periodic component was found.
	Voiced Outcome = iota
	// NoSignal: RMS below the noise floor.
	NoSignal
	// NoPeak: no lag in range correlated positively, or the refined lag
	// was not usable.
	NoPeak
	// Degenerate: voiced, but the parabolic refinement was not finite and
	// the integer lag was used.
	Degenerate
	// OutOfRange: voiced, but outside the plausible range of the caller.
	// The estimator never produces it; pipelines set it.
	OutOfRange
	// InvalidInput: empty block or unusable sample rate.
	InvalidInput
)

var outcomeNames = [...]string{
	Voiced:       "voiced",
	NoSignal:     "no-signal",
	NoPeak:       "no-peak",
	Degenerate:   "degenerate",
	OutOfRange:   "out-of-range",
	InvalidInput: "invalid-input",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}

	return outcomeNames[o]
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
