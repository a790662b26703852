package parking

import (
	"fmt"
	"strings"
	"time"
)

const hoursPerDay = 24

// Rates is the tariff applied on unpark. Hourly rates are keyed by the size of
// the slot the vehicle occupied, not by the size of the vehicle.
type Rates struct {
	FlatRate        int
	FlatWindowHours int
	HourlyRates     map[Size]int
	DailyRate       int
	Currency        string
}

func DefaultRates() Rates {
	return Rates{
		FlatRate:        40,
		FlatWindowHours: 3,
		HourlyRates: map[Size]int{
			Small:  20,
			Medium: 60,
			Large:  100,
		},
		DailyRate: 5000,
		Currency:  "₱",
	}
}

type Fee struct {
	TotalHours  int
	FullDays    int
	ExcessHours int
	FlatFee     int
	HourlyFee   int
	DailyFee    int
	TotalFee    int
	Continuous  bool
	Breakdown   string
}

// BillableHours rounds the elapsed time up to whole hours. Zero or negative
// durations bill as zero hours.
func BillableHours(entry, exit time.Time) int {
	// Whole seconds plus a nanosecond remainder; time.Time.Sub saturates after
	// roughly 292 years.
	secs := exit.Unix() - entry.Unix()
	nanos := exit.Nanosecond() - entry.Nanosecond()
	if nanos < 0 {
		secs--
		nanos += int(time.Second)
	}
	if secs < 0 || (secs == 0 && nanos == 0) {
		return 0
	}

	const secondsPerHour = int64(time.Hour / time.Second)
	hours := secs / secondsPerHour
	if secs%secondsPerHour != 0 || nanos != 0 {
		hours++
	}
	return int(hours)
}

// Calculate prices a session. The flat fee is always charged, including for a
// zero-hour session.
func (r Rates) Calculate(entry, exit time.Time, slotSize Size, continuous bool) Fee {
	fee := Fee{
		TotalHours: BillableHours(entry, exit),
		Continuous: continuous,
	}

	fee.FullDays = fee.TotalHours / hoursPerDay
	remaining := fee.TotalHours % hoursPerDay
	fee.DailyFee = fee.FullDays * r.DailyRate

	fee.FlatFee = r.FlatRate
	if remaining > r.FlatWindowHours {
		fee.ExcessHours = remaining - r.FlatWindowHours
		fee.HourlyFee = fee.ExcessHours * r.HourlyRates[slotSize]
	}

	fee.TotalFee = fee.FlatFee + fee.HourlyFee + fee.DailyFee
	fee.Breakdown = r.breakdown(fee)
	return fee
}

func (r Rates) breakdown(fee Fee) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %dhrs", fee.TotalHours)
	if fee.FullDays > 0 {
		fmt.Fprintf(&b, " (%d day(s): %s%d)", fee.FullDays, r.Currency, fee.DailyFee)
	}
	fmt.Fprintf(&b, ", First %dhrs: %s%d", r.FlatWindowHours, r.Currency, fee.FlatFee)
	if fee.ExcessHours > 0 {
		fmt.Fprintf(&b, ", Excess %dhrs: %s%d", fee.ExcessHours, r.Currency, fee.HourlyFee)
	}
	if fee.Continuous {
		b.WriteString(" (Continuous Parking Applied)")
	}
	return b.String()
}

func (r Rates) clone() Rates {
	out := r
	out.HourlyRates = make(map[Size]int, len(r.HourlyRates))
	for size, rate := range r.HourlyRates {
		out.HourlyRates[size] = rate
	}
	return out
}

func (r Rates) Format(amount int) string {
	return fmt.Sprintf("%s%d", r.Currency, amount)
}
