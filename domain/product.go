package domain

import "time"

type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Product struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	CategoryID   *int64    `db:"category_id" json:"category_id,omitempty"`
	CategoryName *string   `db:"category_name" json:"category_name,omitempty"`
	Price        float64   `db:"price" json:"price"`
	Quantity     int64     `db:"quantity" json:"quantity"`
	ReorderLevel int64     `db:"reorder_level" json:"reorder_level"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type InventoryMovement struct {
	ID         int64     `db:"id" json:"id"`
	ProductID  int64     `db:"product_id" json:"product_id"`
	Change     int64     `db:"change" json:"change"`
	Reason     string    `db:"reason" json:"reason"`
	SupplierID *int64    `db:"supplier_id" json:"supplier_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
