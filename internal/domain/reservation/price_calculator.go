package reservation

// RateCalculator turns a daily rate and a date range into a total.
type RateCalculator interface {
	Total(dailyRate Money, dates DateRange) Money
}

type DayRateCalculator struct{}

func NewDayRateCalculator() *DayRateCalculator {
	return &DayRateCalculator{}
}

// Total bills at least one day, so a same-day rental costs one rate.
func (DayRateCalculator) Total(dailyRate Money, dates DateRange) Money {
	return dailyRate.Times(int64(BilledDays(dates)))
}

func BilledDays(dates DateRange) int {
	return max(1, dates.Days())
}
