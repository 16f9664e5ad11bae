package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func aqiRow(values ...float64) MetricRow {
	row := MetricRow{MetricID: MetricAQI, Label: MetricAQI.Label()}
	for _, v := range values {
		row.Readings = append(row.Readings, reading("src", false, StatusActive, v))
	}
	return row
}

func TestGenerateInsightsCriticalAQI(t *testing.T) {
	rows := []MetricRow{aqiRow(150, 175, 200)}

	insights := GenerateInsights(rows, 3, time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC))

	require.LessOrEqual(t, len(insights), MaxInsights)

	var critical []Insight
	for _, in := range insights {
		if in.Type == InsightAlert && in.Severity == SeverityCritical {
			critical = append(critical, in)
		}
	}
	require.Len(t, critical, 1)
	require.Contains(t, critical[0].Message, "175")

	// The provenance trend insight is always last.
	last := insights[len(insights)-1]
	require.Equal(t, InsightTrend, last.Type)
	require.Contains(t, last.Message, "3 raw source readings")
}

func TestGenerateInsightsWarningAQI(t *testing.T) {
	insights := GenerateInsights([]MetricRow{aqiRow(110, 120)}, 2, time.Now())

	require.Equal(t, InsightAlert, insights[0].Type)
	require.Equal(t, SeverityWarning, insights[0].Severity)
}

func TestGenerateInsightsGoodAQIRecord(t *testing.T) {
	insights := GenerateInsights([]MetricRow{aqiRow(40, 50)}, 2, time.Now())

	require.Equal(t, InsightRecord, insights[0].Type)
	require.Equal(t, SeverityInfo, insights[0].Severity)
}

func TestGenerateInsightsHeatwaveIndependentOfAQI(t *testing.T) {
	rows := []MetricRow{
		aqiRow(160, 180),
		{
			MetricID: MetricTemperature,
			Readings: []SourceReading{
				reading("imd", true, StatusActive, 39.5),
				reading("openweather", false, StatusActive, 40.1),
			},
		},
	}

	insights := GenerateInsights(rows, 4, time.Now())

	var criticals int
	for _, in := range insights {
		if in.Severity == SeverityCritical {
			criticals++
		}
	}
	// Both the AQI rule and the heatwave rule fire.
	require.Equal(t, 2, criticals)
	require.LessOrEqual(t, len(insights), MaxInsights)
}

func TestActiveMeanEmptySetIsZero(t *testing.T) {
	rows := []MetricRow{
		{
			MetricID: MetricAQI,
			Readings: []SourceReading{
				reading("src", false, StatusUnavailable, 500),
			},
		},
	}

	// No active readings: the mean is 0, so the good-AQI record fires
	// instead of dividing by zero.
	insights := GenerateInsights(rows, 1, time.Now())
	require.Equal(t, InsightRecord, insights[0].Type)
}
