package store

import (
	"context"

	"zackiepharma/m/domain"
)

// CreateCustomer inserts a customer and returns its id.
func (s *Store) CreateCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `INSERT INTO customers (name, phone, email, address, date_of_birth, medical_history, created_at)
                VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		c.Name, c.Phone, c.Email, c.Address, c.DateOfBirth, c.MedicalHistory, s.timestamp()).Scan(&id)
	return id, classify(err, "create customer")
}

// ListCustomers returns every customer ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers := []domain.Customer{}
	err := s.db.SelectContext(ctx, &customers, `SELECT id, name, phone, email, address, date_of_birth, medical_history, created_at
                FROM customers ORDER BY name`)
	return customers, classify(err, "list customers")
}

// CreateSupplier inserts a supplier and returns its id.
func (s *Store) CreateSupplier(ctx context.Context, sup domain.Supplier) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `INSERT INTO suppliers (name, phone, email, address, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		sup.Name, sup.Phone, sup.Email, sup.Address, s.timestamp()).Scan(&id)
	return id, classify(err, "create supplier")
}

// ListSuppliers returns every supplier ordered by name.
func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	err := s.db.SelectContext(ctx, &suppliers, `SELECT id, name, phone, email, address, created_at FROM suppliers ORDER BY name`)
	return suppliers, classify(err, "list suppliers")
}

// CreatePrescription inserts a prescription; unknown customer or product ids
// yield ErrInvalidReference.
func (s *Store) CreatePrescription(ctx context.Context, p domain.Prescription) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `INSERT INTO prescriptions (customer_id, doctor_name, product_id, quantity, date_prescribed, instructions)
                VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		p.CustomerID, p.DoctorName, p.ProductID, p.Quantity, p.DatePrescribed, p.Instructions).Scan(&id)
	return id, classify(err, "create prescription")
}

// ListPrescriptions returns prescriptions with customer and product names,
// limited to one customer when customerID is positive.
func (s *Store) ListPrescriptions(ctx context.Context, customerID int64) ([]domain.Prescription, error) {
	prescriptions := []domain.Prescription{}
	query := `SELECT pr.id, pr.customer_id, c.name AS customer_name, pr.doctor_name, pr.product_id, p.name AS product_name,
                pr.quantity, pr.date_prescribed, pr.instructions
                FROM prescriptions pr
                JOIN customers c ON c.id = pr.customer_id
                JOIN products p ON p.id = pr.product_id`
	args := []any{}
	if customerID > 0 {
		query += ` WHERE pr.customer_id = ?`
		args = append(args, customerID)
	}
	query += ` ORDER BY pr.id DESC`
	err := s.db.SelectContext(ctx, &prescriptions, query, args...)
	return prescriptions, classify(err, "list prescriptions")
}
