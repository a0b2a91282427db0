package order

import "time"

// hours added to the estimate for every refaction line
const lineAddend = 0.5

// EstimateDuration returns the expected hours of work for an order.
func EstimateDuration(o *Order) float64 {
	return (o.ServiceType.Duration + lineAddend*float64(len(o.Lines))) * o.Priority.Factor()
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
