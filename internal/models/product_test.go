package models

import (
	"encoding/json"
	"testing"
)

// TestRatingSummaryJSON verifies the empty aggregate encodes as null rather
// than zero.
func TestRatingSummaryJSON(t *testing.T) {
	b, err := json.Marshal(RatingSummary{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"avg_rating":null}` {
		t.Errorf("got %s, want {\"avg_rating\":null}", b)
	}

	avg := 4.0
	b, err = json.Marshal(RatingSummary{AvgRating: &avg})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"avg_rating":4}` {
		t.Errorf("got %s, want {\"avg_rating\":4}", b)
	}
}
