package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"stagepass/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, COALESCE(description,'') AS description, COALESCE(category,'') AS category,
  price, image_url, thumbnail_url, stock_quantity, is_featured,
  external_source, external_id, metadata,
  COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) List(limit, offset int, featuredOnly bool) ([]domain.Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	if featuredOnly {
		q += ` WHERE is_featured = 1`
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	out := []domain.Product{}
	err := r.db.Select(&out, q, limit, offset)
	return out, err
}

// FindByExternal looks up the row a previous sync imported for the given
// external record. Returns nil when no such row exists.
func (r *ProductRepo) FindByExternal(source, externalID string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE external_source = ? AND external_id = ?`, source, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Insert(p *domain.Product) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO products(name,description,category,price,image_url,thumbnail_url,
	    stock_quantity,is_featured,external_source,external_id,metadata,created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.Name, p.Description, p.Category, p.Price, p.ImageURL, p.ThumbnailURL,
		p.StockQuantity, p.IsFeatured, p.ExternalSource, p.ExternalID, p.Metadata)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update refreshes the mutable fields of an existing row in place.
func (r *ProductRepo) Update(p *domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products SET name=?, description=?, category=?, price=?, image_url=?,
	    thumbnail_url=?, stock_quantity=?, external_source=?, external_id=?, metadata=?,
	    updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.Name, p.Description, p.Category, p.Price, p.ImageURL, p.ThumbnailURL,
		p.StockQuantity, p.ExternalSource, p.ExternalID, p.Metadata, p.ID)
	return err
}
