package repos

import "github.com/jmoiron/sqlx"

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type OrderRow struct {
	ID         string `db:"id" json:"id"`
	SessionID  string `db:"session_id" json:"-"`
	Customer   string `db:"customer_name" json:"customerName"`
	Email      string `db:"customer_email" json:"customerEmail"`
	TotalMinor int64  `db:"total_minor" json:"totalMinor"`
	CreatedAt  string `db:"created_at" json:"createdAt"`
}

// Create records a completed checkout so the confirmation page has
// something to show after the cart is cleared.
func (r *OrderRepo) Create(orderID, sessionID, name, email string, totalMinor int64) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders(id, session_id, customer_name, customer_email, total_minor, created_at)
	  VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
	`, orderID, sessionID, name, email, totalMinor)
	return err
}

func (r *OrderRepo) Get(orderID string) (OrderRow, error) {
	var o OrderRow
	err := r.db.Get(&o, `
	  SELECT id, session_id, customer_name, customer_email, total_minor, COALESCE(created_at,'') AS created_at
	  FROM orders WHERE id = ?`, orderID)
	return o, err
}
