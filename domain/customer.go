package domain

import "time"

type Customer struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Phone          string    `db:"phone" json:"phone"`
	Email          string    `db:"email" json:"email"`
	Address        string    `db:"address" json:"address"`
	DateOfBirth    string    `db:"date_of_birth" json:"date_of_birth"`
	MedicalHistory string    `db:"medical_history" json:"medical_history"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Supplier struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Prescription struct {
	ID             int64  `db:"id" json:"id"`
	CustomerID     int64  `db:"customer_id" json:"customer_id"`
	CustomerName   string `db:"customer_name" json:"customer_name,omitempty"`
	DoctorName     string `db:"doctor_name" json:"doctor_name"`
	ProductID      int64  `db:"product_id" json:"product_id"`
	ProductName    string `db:"product_name" json:"product_name,omitempty"`
	Quantity       int64  `db:"quantity" json:"quantity"`
	DatePrescribed string `db:"date_prescribed" json:"date_prescribed"`
	Instructions   string `db:"instructions" json:"instructions"`
}
