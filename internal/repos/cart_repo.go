package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// CartRepo is the durable store behind cart hydration: one JSON payload per
// cart key, read once at startup and overwritten on every mutation.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Load returns (nil, nil) when no snapshot exists for the key.
func (r *CartRepo) Load(key string) ([]byte, error) {
	var payload string
	err := r.db.Get(&payload, `SELECT payload FROM cart_snapshots WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (r *CartRepo) Save(key string, payload []byte) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_snapshots(key,payload,updated_at)
	  VALUES(?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(key) DO UPDATE SET payload=excluded.payload, updated_at=CURRENT_TIMESTAMP
	`, key, string(payload))
	return err
}

func (r *CartRepo) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM cart_snapshots WHERE key = ?`, key)
	return err
}
