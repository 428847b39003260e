package models

type SystemStats struct {
	UserCount    int `json:"userCount"`
	ProductCount int `json:"productCount"`
	OrderCount   int `json:"orderCount"`
	PendingCount int `json:"pendingCount"`
}

type SalesStats struct {
	TotalSales    float64 `json:"totalSales"`
	TodaySales    float64 `json:"todaySales"`
	TotalOrders   int     `json:"totalOrders"`
	TodayOrders   int     `json:"todayOrders"`
	RefundedTotal float64 `json:"refundedTotal"`
}

type ProductRankEntry struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Sales       int     `json:"sales"`
	Revenue     float64 `json:"revenue"`
}

type RegistrationPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// OrderStats is the admin order-statistics payload.
type OrderStats struct {
	ByStatus map[OrderStatus]int `json:"byStatus"`
	Total    int                 `json:"total"`
}
