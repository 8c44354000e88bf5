package types

// OrderPairStats counts dual-symbol order pairs. A pair is attempted once
// observed and succeeded only when both currency legs filled.
type OrderPairStats struct {
	Attempted int `yaml:"attempted" json:"attempted"`
	Succeeded int `yaml:"succeeded" json:"succeeded"`
}

// SuccessRate returns the pair success rate as a percentage.
func (s OrderPairStats) SuccessRate() float64 {
	if s.Attempted == 0 {
		return 0
	}

	return float64(s.Succeeded) / float64(s.Attempted) * 100
}

// OrderStats counts order submissions and their outcomes.
type OrderStats struct {
	Total    int `yaml:"total" json:"total"`
	Accepted int `yaml:"accepted" json:"accepted"`
	Rejected int `yaml:"rejected" json:"rejected"`
	// Latencies holds one submit-to-response latency sample per response
	// that reported one, in milliseconds.
	Latencies []float64 `yaml:"latencies" json:"latencies"`
}

// AcceptRate returns the order acceptance rate as a percentage of total orders.
func (s OrderStats) AcceptRate() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.Accepted) / float64(s.Total) * 100
}

// AverageLatency returns the mean response latency in milliseconds.
func (s OrderStats) AverageLatency() float64 {
	return mean(s.Latencies)
}

// FillStats counts fill events and accumulates filled quantity per
// settlement currency.
type FillStats struct {
	Total   int `yaml:"total" json:"total"`
	Partial int `yaml:"partial" json:"partial"`
	Full    int `yaml:"full" json:"full"`
	// UsdtQty is the filled quantity attributed to the USDT leg.
	UsdtQty float64 `yaml:"usdt_qty" json:"usdt_qty"`
	// UsdcQty is the filled quantity attributed to the USDC leg.
	UsdcQty float64 `yaml:"usdc_qty" json:"usdc_qty"`
	// Prices holds one price sample per fill that reported one.
	Prices []float64 `yaml:"prices" json:"prices"`
}

// AveragePrice returns the mean fill price.
func (s FillStats) AveragePrice() float64 {
	return mean(s.Prices)
}

// FastChaseStats counts fast-chase retry episodes and their outcomes.
type FastChaseStats struct {
	Events    int `yaml:"events" json:"events"`
	Successes int `yaml:"successes" json:"successes"`
	// Retries holds one retry-count sample per successful chase.
	Retries []float64 `yaml:"retries" json:"retries"`
	// FallbackReasons maps a fallback reason to its occurrence count.
	FallbackReasons map[string]int `yaml:"fallback_reasons" json:"fallback_reasons"`
}

// SuccessRate returns the chase success rate as a percentage.
func (s FastChaseStats) SuccessRate() float64 {
	if s.Events == 0 {
		return 0
	}

	return float64(s.Successes) / float64(s.Events) * 100
}

// AverageRetries returns the mean retry count of successful chases.
func (s FastChaseStats) AverageRetries() float64 {
	return mean(s.Retries)
}

// ErrorStats categorizes error-level observations.
type ErrorStats struct {
	// GtxRejections counts post-only (GTX) order rejections. Both the
	// ORDER_RESPONSE and the ORDER_STATE handling can increment this for
	// the same logical rejection; the double-count matches the source
	// executor's reporting and is kept.
	GtxRejections int `yaml:"gtx_rejections" json:"gtx_rejections"`
	APIErrors     int `yaml:"api_errors" json:"api_errors"`
	Timeouts      int `yaml:"timeouts" json:"timeouts"`
	Other         int `yaml:"other" json:"other"`
}

// SessionStats is a purely derived aggregate over the events of one session
// or a session set. Derived values (rates, averages) are computed on demand
// from the stored counters and samples, never cached.
type SessionStats struct {
	// SpreadTriggers counts SPREAD_MET events.
	SpreadTriggers int            `yaml:"spread_triggers" json:"spread_triggers"`
	OrderPairs     OrderPairStats `yaml:"order_pairs" json:"order_pairs"`
	Orders         OrderStats     `yaml:"orders" json:"orders"`
	Fills          FillStats      `yaml:"fills" json:"fills"`
	FastChase      FastChaseStats `yaml:"fast_chase" json:"fast_chase"`
	Errors         ErrorStats     `yaml:"errors" json:"errors"`
}

// NewSessionStats returns an empty SessionStats with initialized maps.
func NewSessionStats() SessionStats {
	return SessionStats{
		FastChase: FastChaseStats{
			FallbackReasons: make(map[string]int),
		},
	}
}

// Merge adds other into s field-wise: counters are summed, sample lists are
// concatenated, and fallback-reason counts are merged per key. Merging the
// per-session stats of a session set equals computing the stats over the
// whole set at once.
func (s *SessionStats) Merge(other SessionStats) {
	s.SpreadTriggers += other.SpreadTriggers

	s.OrderPairs.Attempted += other.OrderPairs.Attempted
	s.OrderPairs.Succeeded += other.OrderPairs.Succeeded

	s.Orders.Total += other.Orders.Total
	s.Orders.Accepted += other.Orders.Accepted
	s.Orders.Rejected += other.Orders.Rejected
	s.Orders.Latencies = append(s.Orders.Latencies, other.Orders.Latencies...)

	s.Fills.Total += other.Fills.Total
	s.Fills.Partial += other.Fills.Partial
	s.Fills.Full += other.Fills.Full
	s.Fills.UsdtQty += other.Fills.UsdtQty
	s.Fills.UsdcQty += other.Fills.UsdcQty
	s.Fills.Prices = append(s.Fills.Prices, other.Fills.Prices...)

	s.FastChase.Events += other.FastChase.Events
	s.FastChase.Successes += other.FastChase.Successes
	s.FastChase.Retries = append(s.FastChase.Retries, other.FastChase.Retries...)

	if s.FastChase.FallbackReasons == nil {
		s.FastChase.FallbackReasons = make(map[string]int)
	}

	for reason, count := range other.FastChase.FallbackReasons {
		s.FastChase.FallbackReasons[reason] += count
	}

	s.Errors.GtxRejections += other.Errors.GtxRejections
	s.Errors.APIErrors += other.Errors.APIErrors
	s.Errors.Timeouts += other.Errors.Timeouts
	s.Errors.Other += other.Errors.Other
}

func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, v := range samples {
		sum += v
	}

	return sum / float64(len(samples))
}
