package domain

const (
	MinSpeechRate     = 0.5
	MaxSpeechRate     = 2.0
	DefaultSpeechRate = 1.0
)

// SpeedLabel names a speech rate the way the rate slider shows it.
func SpeedLabel(rate float64) string {
	switch {
	case rate < 0.8:
		return "Slow"
	case rate > 1.2:
		return "Fast"
	default:
		return "Normal"
	}
}

// ClampRate keeps a speech rate inside the supported range.
func ClampRate(rate float64) float64 {
	if rate <= 0 {
		return DefaultSpeechRate
	}
	if rate < MinSpeechRate {
		return MinSpeechRate
	}
	if rate > MaxSpeechRate {
		return MaxSpeechRate
	}
	return rate
}
