package deconflict

import (
	"math"
	"testing"
)

func TestSeverityForBuckets(t *testing.T) {
	cases := []struct {
		risk float64
		want Severity
	}{
		{0.0, Safe},
		{0.09, Safe},
		{0.10, Low},
		{0.29, Low},
		{0.30, Warning},
		{0.54, Warning},
		{0.55, High},
		{0.79, High},
		{0.80, Critical},
		{1.00, Critical},
	}
	for _, c := range cases {
		if got := severityFor(c.risk); got != c.want {
			t.Errorf("severityFor(%v) = %v, expected %v", c.risk, got, c.want)
		}
	}
}

func TestAltitudeRiskFactorBuckets(t *testing.T) {
	cases := []struct {
		z    float64
		want float64
	}{
		{0, 1.0},
		{29.9, 1.0},
		{30, 1.2},
		{120, 1.2},
		{120.1, 1.0},
		{300, 1.0},
		{300.1, 0.9},
	}
	for _, c := range cases {
		if got := altitudeRiskFactorFor(c.z); got != c.want {
			t.Errorf("altitudeRiskFactorFor(%v) = %v, expected %v", c.z, got, c.want)
		}
	}
}

func TestRecommendationTemplates(t *testing.T) {
	cases := []struct {
		sev    Severity
		prefix string
	}{
		{Critical, "REJECT"},
		{High, "WARN"},
		{Warning, "ADJUST"},
		{Low, "MONITOR"},
		{Safe, "CLEAR"},
	}
	for _, c := range cases {
		got := recommendationFor(c.sev, "x", 5, 10)
		if len(got) < len(c.prefix) || got[:len(c.prefix)] != c.prefix {
			t.Errorf("recommendationFor(%v) = %q, expected prefix %q", c.sev, got, c.prefix)
		}
	}
}

func TestRecommendationInfiniteTTC(t *testing.T) {
	got := recommendationFor(Warning, "x", math.Inf(1), 10)
	if !contains(got, "n/a") {
		t.Errorf("recommendationFor with infinite TTC = %q, expected to mention n/a", got)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
