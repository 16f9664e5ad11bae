package weather

// SyntheticOffset derives one labelled source's value from a single measured
// value. It is a pure function of (sourceID, metric, base): a fixed
// per-source bias plus a small jitter computed from the lengths of the
// source and metric names, scaled per metric. It exists only to preserve the
// multi-source display contract when a single authoritative series is all we
// have; it is NOT a randomness source, and re-running it with identical
// inputs always yields bit-identical output.
func SyntheticOffset(sourceID string, metric MetricID, base float64) float64 {
	jitter := float64((len(sourceID)*7+len(string(metric))*13)%11-5) / 10.0
	return base + sourceBias(sourceID) + jitter*jitterScale(metric)
}

// jitterScale keeps the synthetic spread proportionate to each metric's
// typical magnitude.
func jitterScale(m MetricID) float64 {
	switch m {
	case MetricTemperature:
		return 0.3
	case MetricHumidity:
		return 1.0
	case MetricPressure:
		return 0.5
	case MetricWind:
		return 0.4
	case MetricPrecipitation:
		return 0.1
	case MetricUV:
		return 0.1
	case MetricAQI:
		return 3.0
	default:
		return 0
	}
}
