package game

import "testing"

func TestNormalizeDirectionSynonyms(t *testing.T) {
	upLabels := []string{"UP", "RISE", "RISING", "BULL", "BULLISH", "INCREASE",
		"up", "rise", "rising", "bull", "bullish", "increase", "  Bullish  "}
	downLabels := []string{"DOWN", "FALL", "FALLING", "BEAR", "BEARISH", "DECREASE",
		"down", "fall", "falling", "bear", "bearish", "decrease", " Bearish "}

	for _, label := range upLabels {
		if got := NormalizeDirection(label, nil); got != DirectionUp {
			t.Errorf("NormalizeDirection(%q) = %s, expected UP", label, got)
		}
	}

	for _, label := range downLabels {
		if got := NormalizeDirection(label, nil); got != DirectionDown {
			t.Errorf("NormalizeDirection(%q) = %s, expected DOWN", label, got)
		}
	}
}

func TestNormalizeDirectionFallback(t *testing.T) {
	positive := 3.2
	negative := -0.1
	zero := 0.0

	tests := []struct {
		name     string
		label    string
		fallback *float64
		expected Direction
	}{
		{"unrecognized with positive fallback", "sideways", &positive, DirectionUp},
		{"unrecognized with negative fallback", "sideways", &negative, DirectionDown},
		{"zero fallback counts as up", "???", &zero, DirectionUp},
		{"empty label with positive fallback", "", &positive, DirectionUp},
		{"no label and no fallback defaults down", "", nil, DirectionDown},
		{"unrecognized and no fallback defaults down", "mystery", nil, DirectionDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDirection(tt.label, tt.fallback); got != tt.expected {
				t.Errorf("NormalizeDirection(%q, %v) = %s, expected %s",
					tt.label, tt.fallback, got, tt.expected)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	if d, ok := ParseDirection("up"); !ok || d != DirectionUp {
		t.Errorf("ParseDirection(up) = %s, %v", d, ok)
	}
	if d, ok := ParseDirection(" DOWN "); !ok || d != DirectionDown {
		t.Errorf("ParseDirection(DOWN) = %s, %v", d, ok)
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("ParseDirection(sideways) should not parse")
	}
	if _, ok := ParseDirection(""); ok {
		t.Error("ParseDirection of empty string should not parse")
	}
}
