package domain

import "time"

// SaleTimeLayout is the text layout of every stored timestamp.
const SaleTimeLayout = "2006-01-02 15:04:05"

type Sale struct {
	ID            int64      `db:"id" json:"id"`
	ReceiptNo     string     `db:"receipt_no" json:"receipt_no"`
	CustomerID    *int64     `db:"customer_id" json:"customer_id,omitempty"`
	UserID        *int64     `db:"user_id" json:"user_id,omitempty"`
	TotalAmount   float64    `db:"total_amount" json:"total_amount"`
	PaymentMethod string     `db:"payment_method" json:"payment_method"`
	Discount      float64    `db:"discount" json:"discount"`
	Tax           float64    `db:"tax" json:"tax"`
	SaleDate      time.Time  `db:"sale_date" json:"sale_date"`
	Items         []SaleItem `db:"-" json:"items,omitempty"`
}

type SaleItem struct {
	ID          int64   `db:"id" json:"id"`
	SaleID      int64   `db:"sale_id" json:"sale_id"`
	ProductID   int64   `db:"product_id" json:"product_id"`
	ProductName string  `db:"product_name" json:"product_name,omitempty"`
	Quantity    int64   `db:"quantity" json:"quantity"`
	Price       float64 `db:"price" json:"price"`
}

// Subtotal is quantity times unit price.
func (i SaleItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

// SalesSummary is the reporting aggregate over a date range.
type SalesSummary struct {
	TotalSales float64 `db:"total_sales" json:"total_sales"`
	SaleCount  int64   `db:"sale_count" json:"sale_count"`
	UnitsSold  int64   `db:"units_sold" json:"units_sold"`
}
