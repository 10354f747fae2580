package domain

// DefaultTrendPoints is the number of daily buckets returned when the caller
// does not ask for a specific count.
const DefaultTrendPoints = 90

// TrendPoint is one day of activity.
type TrendPoint struct {
	Date    string  `json:"date"`
	Trips   int64   `json:"trips"`
	Revenue float64 `json:"revenue"`
	AvgFare float64 `json:"avg_fare"`
}

// DataStats summarizes the target table and compares the first and second
// half of its rows.
type DataStats struct {
	TotalTrips    int64   `json:"total_trips"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgFare       float64 `json:"avg_fare"`
	AvgDistance   float64 `json:"avg_distance"`
	AvgPassengers float64 `json:"avg_passengers"`
	RevenueChange float64 `json:"revenue_change"`
	TripsChange   float64 `json:"trips_change"`
}
