package weather

// PickDisplay selects the reading a metric card shows. Preference order:
// first active official reading, then first active reading of any kind, then
// the first reading regardless of status so the card can still render a
// stale/unavailable marker. Returns nil only for a row with zero readings.
func PickDisplay(row MetricRow) *SourceReading {
	if len(row.Readings) == 0 {
		return nil
	}
	for i := range row.Readings {
		r := &row.Readings[i]
		if r.Status == StatusActive && r.Official {
			return r
		}
	}
	for i := range row.Readings {
		r := &row.Readings[i]
		if r.Status == StatusActive {
			return r
		}
	}
	return &row.Readings[0]
}
