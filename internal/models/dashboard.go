package models

type BestSeller struct {
	Name         string  `json:"name"`
	QuantitySold int     `json:"quantitySold"`
	Revenue      float64 `json:"revenue"`
}

// DashboardStats is the aggregate payload of GET /dashboard, computed
// entirely by the backend.
type DashboardStats struct {
	TotalSales    float64      `json:"totalSales"`
	TotalOrders   int          `json:"totalOrders"`
	TotalProducts int          `json:"totalProducts"`
	Profit        float64      `json:"profit"`
	BestSellers   []BestSeller `json:"bestSellers"`
}
