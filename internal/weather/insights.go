package weather

import (
	"fmt"
	"time"
)

// MaxInsights caps the generated insight list.
const MaxInsights = 4

// aqi and temperature thresholds for the alert rules.
const (
	aqiCriticalThreshold = 150
	aqiWarningThreshold  = 100
	heatwaveThresholdC   = 38
)

// GenerateInsights derives threshold-based alerts and trend statements from
// the normalized rows. Rules run in fixed priority order, each contributing
// at most one insight, and the list never exceeds MaxInsights.
func GenerateInsights(rows []MetricRow, rawReadings int, observedAt time.Time) []Insight {
	label := fmt.Sprintf("%02d:00", observedAt.Hour())
	insights := make([]Insight, 0, MaxInsights)

	add := func(in Insight) {
		if len(insights) < MaxInsights {
			in.TimestampLabel = label
			insights = append(insights, in)
		}
	}

	aqiMean := activeMean(rows, MetricAQI)
	switch {
	case aqiMean > aqiCriticalThreshold:
		add(Insight{
			Type:     InsightAlert,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("Severe air quality: average AQI %.0f across sources", aqiMean),
		})
	case aqiMean > aqiWarningThreshold:
		add(Insight{
			Type:     InsightAlert,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Poor air quality: average AQI %.0f across sources", aqiMean),
		})
	default:
		add(Insight{
			Type:     InsightRecord,
			Severity: SeverityInfo,
			Message:  "Air quality is in the good range",
		})
	}

	if tempMean := activeMean(rows, MetricTemperature); tempMean > heatwaveThresholdC {
		add(Insight{
			Type:     InsightAlert,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("Heatwave conditions: average temperature %.1f°C", tempMean),
		})
	}

	add(Insight{
		Type:     InsightTrend,
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("Snapshot assembled from %d raw source readings", rawReadings),
	})

	return insights
}

// activeMean is the arithmetic mean over the non-nil values of a metric's
// active readings. An empty value set yields 0; the division is guarded
// explicitly.
func activeMean(rows []MetricRow, m MetricID) float64 {
	var sum float64
	var n int
	for _, row := range rows {
		if row.MetricID != m {
			continue
		}
		for _, r := range row.Readings {
			if r.Status != StatusActive || r.Value == nil {
				continue
			}
			sum += *r.Value
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
