package parking

import (
	"testing"
	"time"
)

func TestBillableHours(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{-time.Hour, 0},
		{time.Nanosecond, 1},
		{-time.Nanosecond, 0},
		{time.Second, 1},
		{time.Hour, 1},
		{time.Hour + time.Minute, 2},
		{2 * time.Hour, 2},
		{26 * time.Hour, 26},
	}

	for _, tt := range tests {
		if got := BillableHours(sampleTime, sampleTime.Add(tt.elapsed)); got != tt.want {
			t.Errorf("BillableHours(%s): expected %d, got %d", tt.elapsed, tt.want, got)
		}
	}
}

func TestBillableHoursAcrossCenturies(t *testing.T) {
	entry := time.Date(1700, 1, 2, 0, 0, 0, 0, time.UTC)
	exit := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	if got := BillableHours(entry, exit); got != 2864592 {
		t.Errorf("Expected 2864592 hours, got %d", got)
	}
	if got := BillableHours(entry, exit.Add(time.Nanosecond)); got != 2864593 {
		t.Errorf("Expected a trailing nanosecond to bill a new hour, got %d", got)
	}
	if got := BillableHours(exit, entry); got != 0 {
		t.Errorf("Expected a reversed interval to bill 0 hours, got %d", got)
	}

	fee := DefaultRates().Calculate(entry, exit, Large, false)
	if fee.FullDays != 119358 {
		t.Errorf("Expected 119358 full days, got %d", fee.FullDays)
	}
	if fee.TotalFee != 40+119358*5000 {
		t.Errorf("Expected total fee %d, got %d", 40+119358*5000, fee.TotalFee)
	}
	if fee.TotalFee < fee.FlatFee {
		t.Errorf("Expected total fee of at least the flat rate, got %d", fee.TotalFee)
	}
}

func TestCalculateWithinFlatWindow(t *testing.T) {
	fee := DefaultRates().Calculate(sampleTime, sampleTime.Add(2*time.Hour), Small, false)

	if fee.TotalHours != 2 {
		t.Errorf("Expected 2 total hours, got %d", fee.TotalHours)
	}
	if fee.FlatFee != 40 {
		t.Errorf("Expected flat fee 40, got %d", fee.FlatFee)
	}
	if fee.ExcessHours != 0 || fee.HourlyFee != 0 {
		t.Errorf("Expected no excess, got %d hours for %d", fee.ExcessHours, fee.HourlyFee)
	}
	if fee.TotalFee != 40 {
		t.Errorf("Expected total 40, got %d", fee.TotalFee)
	}
}

func TestCalculateExcessHours(t *testing.T) {
	fee := DefaultRates().Calculate(sampleTime, sampleTime.Add(5*time.Hour), Medium, false)

	if fee.TotalHours != 5 {
		t.Errorf("Expected 5 total hours, got %d", fee.TotalHours)
	}
	if fee.ExcessHours != 2 {
		t.Errorf("Expected 2 excess hours, got %d", fee.ExcessHours)
	}
	if fee.HourlyFee != 120 {
		t.Errorf("Expected hourly fee 120, got %d", fee.HourlyFee)
	}
	if fee.TotalFee != 160 {
		t.Errorf("Expected total 160, got %d", fee.TotalFee)
	}
}

func TestCalculateHourlyRateFollowsSlotSize(t *testing.T) {
	rates := DefaultRates()
	exit := sampleTime.Add(4 * time.Hour)

	tests := map[Size]int{Small: 60, Medium: 100, Large: 140}
	for size, want := range tests {
		if got := rates.Calculate(sampleTime, exit, size, false).TotalFee; got != want {
			t.Errorf("%s slot: expected total %d, got %d", size, want, got)
		}
	}
}

func TestCalculateFullDay(t *testing.T) {
	fee := DefaultRates().Calculate(sampleTime, sampleTime.Add(26*time.Hour), Large, false)

	if fee.FullDays != 1 {
		t.Errorf("Expected 1 full day, got %d", fee.FullDays)
	}
	if fee.DailyFee != 5000 {
		t.Errorf("Expected daily fee 5000, got %d", fee.DailyFee)
	}
	if fee.FlatFee != 40 {
		t.Errorf("Expected flat fee 40, got %d", fee.FlatFee)
	}
	if fee.ExcessHours != 0 {
		t.Errorf("Expected no excess hours, got %d", fee.ExcessHours)
	}
	if fee.TotalFee != 5040 {
		t.Errorf("Expected total 5040, got %d", fee.TotalFee)
	}
}

func TestCalculateDaysPlusExcess(t *testing.T) {
	// 2 days and 7 hours in a small slot: 10000 + 40 + 4*20
	fee := DefaultRates().Calculate(sampleTime, sampleTime.Add(55*time.Hour), Small, false)

	if fee.FullDays != 2 || fee.ExcessHours != 4 {
		t.Errorf("Expected 2 days and 4 excess hours, got %d and %d", fee.FullDays, fee.ExcessHours)
	}
	if fee.TotalFee != 10120 {
		t.Errorf("Expected total 10120, got %d", fee.TotalFee)
	}
}

func TestCalculateZeroDuration(t *testing.T) {
	fee := DefaultRates().Calculate(sampleTime, sampleTime, Small, false)
	if fee.TotalHours != 0 {
		t.Errorf("Expected 0 hours, got %d", fee.TotalHours)
	}
	if fee.TotalFee != 40 {
		t.Errorf("Expected the flat fee only, got %d", fee.TotalFee)
	}

	fee = DefaultRates().Calculate(sampleTime, sampleTime.Add(-time.Hour), Small, false)
	if fee.TotalHours != 0 || fee.TotalFee != 40 {
		t.Errorf("Expected exit before entry to bill as zero hours, got %d hours for %d", fee.TotalHours, fee.TotalFee)
	}
}

func TestCalculateIsMonotonic(t *testing.T) {
	rates := DefaultRates()
	for _, size := range Sizes {
		previous := 0
		for h := 0; h <= 72; h++ {
			fee := rates.Calculate(sampleTime, sampleTime.Add(time.Duration(h)*time.Hour), size, false)
			if fee.TotalFee < previous {
				t.Fatalf("%s slot: fee dropped from %d to %d at %d hours", size, previous, fee.TotalFee, h)
			}
			previous = fee.TotalFee
		}
	}
}

func TestBreakdown(t *testing.T) {
	rates := DefaultRates()

	fee := rates.Calculate(sampleTime, sampleTime.Add(26*time.Hour), Small, true)
	want := "Total: 26hrs (1 day(s): ₱5000), First 3hrs: ₱40 (Continuous Parking Applied)"
	if fee.Breakdown != want {
		t.Errorf("Expected breakdown %q, got %q", want, fee.Breakdown)
	}

	fee = rates.Calculate(sampleTime, sampleTime.Add(5*time.Hour), Medium, false)
	want = "Total: 5hrs, First 3hrs: ₱40, Excess 2hrs: ₱120"
	if fee.Breakdown != want {
		t.Errorf("Expected breakdown %q, got %q", want, fee.Breakdown)
	}
}
