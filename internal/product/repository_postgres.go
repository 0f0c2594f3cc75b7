package product

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listProductsQuery = `
		SELECT product_id, name, price, description, image_url, additional_info
		FROM products
		ORDER BY name ASC
		LIMIT 10
	`
	searchProductsQuery = `
		SELECT product_id, name, price, description, image_url, additional_info
		FROM products
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
		LIMIT 10
	`
	getProductByIDQuery = `
		SELECT product_id, name, price, description, image_url, additional_info
		FROM products
		WHERE product_id = $1
	`
	listProductsByIDsQuery = `
		SELECT product_id, name, price, description, image_url, additional_info
		FROM products
		WHERE product_id = ANY($1::int[])
		ORDER BY array_position($1::int[], product_id)
	`
	insertProductQuery = `
		INSERT INTO products (name, price, description, image_url, additional_info)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING product_id
	`
	deleteProductsQuery = `DELETE FROM products`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(listProductsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PostgresRepository) Search(query string) ([]Product, error) {
	rows, err := r.db.Query(searchProductsQuery, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PostgresRepository) Reset(products []Product) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteProductsQuery); err != nil {
		return err
	}

	for i := range products {
		info, err := marshalInfo(products[i].AdditionalInfo)
		if err != nil {
			return err
		}
		err = tx.QueryRow(
			insertProductQuery,
			products[i].Name,
			products[i].Price,
			products[i].Description,
			products[i].ImageURL,
			info,
		).Scan(&products[i].ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p   Product
		raw []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.ImageURL, &raw); err != nil {
		return Product{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.AdditionalInfo); err != nil {
			return Product{}, err
		}
	}
	return p, nil
}

func marshalInfo(info map[string]any) (any, error) {
	if len(info) == 0 {
		return nil, nil
	}
	return json.Marshal(info)
}
