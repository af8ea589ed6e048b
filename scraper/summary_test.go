package scraper

import "testing"

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Low != nil || s.Median != nil || s.High != nil {
		t.Fatalf("expected nil summary fields for empty input, got %+v", s)
	}
}

func TestSummarize_OddCount(t *testing.T) {
	s := Summarize([]float64{30, 10, 20})
	if s.Low == nil || *s.Low != 10 {
		t.Fatalf("expected low 10, got %v", s.Low)
	}
	if s.Median == nil || *s.Median != 20 {
		t.Fatalf("expected median 20, got %v", s.Median)
	}
	if s.High == nil || *s.High != 30 {
		t.Fatalf("expected high 30, got %v", s.High)
	}
}

func TestSummarize_EvenCountAveragesMiddle(t *testing.T) {
	s := Summarize([]float64{20, 10})
	if s.Median == nil || *s.Median != 15 {
		t.Fatalf("expected median 15, got %v", s.Median)
	}
}

func TestSummarize_SingleValue(t *testing.T) {
	s := Summarize([]float64{42.50})
	if *s.Low != 42.50 || *s.Median != 42.50 || *s.High != 42.50 {
		t.Fatalf("expected all fields 42.50, got low=%v median=%v high=%v", *s.Low, *s.Median, *s.High)
	}
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	prices := []float64{30, 10, 20}
	Summarize(prices)
	if prices[0] != 30 || prices[1] != 10 || prices[2] != 20 {
		t.Fatalf("input slice was reordered: %v", prices)
	}
}
