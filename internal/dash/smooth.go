package dash

// smoothingAlpha balances responsiveness against noise in the stat
// stream. Higher reacts faster, lower smooths harder.
const smoothingAlpha = 0.3

// EMA is an exponential moving average accumulator. The zero value is
// ready to use; the first sample passes through unsmoothed.
type EMA struct {
	value  float64
	primed bool
}

// Add folds in the next sample and returns the smoothed value.
func (e *EMA) Add(x float64) float64 {
	if !e.primed {
		e.value = x
		e.primed = true
		return x
	}
	e.value = smoothingAlpha*x + (1-smoothingAlpha)*e.value
	return e.value
}
