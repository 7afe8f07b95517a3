package repos

import (
	"github.com/jmoiron/sqlx"

	"stagepass/internal/domain"
)

type SettingsRepo struct{ db *sqlx.DB }

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// Get returns sql.ErrNoRows when the key is absent.
func (r *SettingsRepo) Get(key string) (domain.Setting, error) {
	var s domain.Setting
	err := r.db.Get(&s, `
	  SELECT key, value, COALESCE(description,'') AS description, is_sensitive,
	         COALESCE(updated_at,'') AS updated_at
	  FROM settings WHERE key = ?`, key)
	return s, err
}

func (r *SettingsRepo) Set(s domain.Setting) error {
	_, err := r.db.Exec(`
	  INSERT INTO settings(key,value,description,is_sensitive,updated_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(key) DO UPDATE
	  SET value=excluded.value, description=excluded.description,
	      is_sensitive=excluded.is_sensitive, updated_at=CURRENT_TIMESTAMP
	`, s.Key, s.Value, s.Description, s.IsSensitive)
	return err
}

func (r *SettingsRepo) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}
