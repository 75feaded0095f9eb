package domain

type OrderPlaced struct {
	OrderID    string
	CustomerID string
	Lines      []Line
}

type OrderStatusChanged struct {
	OrderID string
	From    Status
	To      Status
}
