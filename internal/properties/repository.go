package properties

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kinderhomes/kinder-estate/internal/apperror"
)

// PropertyRepository defines the data access contract for listings.
// All SQL lives in the concrete implementation -- no SQL leaks out, and the
// abstract Filter is mapped to the store's native query language here only.
type PropertyRepository interface {
	Create(ctx context.Context, p *Property) error
	FindByID(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context) ([]Property, error)
	Search(ctx context.Context, filter *Filter) ([]Property, error)
	Update(ctx context.Context, p *Property) error
	UpdateImages(ctx context.Context, id string, images []string) error
	Delete(ctx context.Context, id string) error
}

// propertyRepository implements PropertyRepository with hand-written
// MariaDB queries.
type propertyRepository struct {
	db *sql.DB
}

// NewPropertyRepository creates a new listing repository backed by the
// given DB pool.
func NewPropertyRepository(db *sql.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// propertyColumns is the column list shared by every SELECT, in scan order.
const propertyColumns = `id, name, address, city, state, postal_code, property_type,
	rent_or_sale, price, bedrooms, bathrooms, square_feet, lot_size,
	year_built, description, images, created_at, updated_at`

// Create inserts a new listing row.
func (r *propertyRepository) Create(ctx context.Context, p *Property) error {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshaling images: %w", err)
	}

	query := `INSERT INTO properties (id, name, address, city, state, postal_code,
	              property_type, rent_or_sale, price, bedrooms, bathrooms,
	              square_feet, lot_size, year_built, description, images, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Address, p.City, p.State, p.PostalCode,
		p.PropertyType, p.RentOrSale, p.Price, p.Bedrooms, p.Bathrooms,
		p.SquareFeet, p.LotSize, p.YearBuilt, p.Description, imagesJSON,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}

	return nil
}

// FindByID retrieves a listing by its UUID.
// Returns apperror.NotFound if no listing exists with this ID.
func (r *propertyRepository) FindByID(ctx context.Context, id string) (*Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE id = ?`, propertyColumns)

	p, err := scanProperty(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("property not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying property by id: %w", err)
	}

	return p, nil
}

// List returns every listing, newest first.
func (r *propertyRepository) List(ctx context.Context) ([]Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties ORDER BY created_at DESC`, propertyColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

// Search returns the listings matching the given abstract filter. The
// filter's present clauses are conjoined with AND; a keyword clause becomes
// a case-insensitive partial match over name OR description. An empty
// filter degenerates to the unfiltered listing query.
func (r *propertyRepository) Search(ctx context.Context, filter *Filter) ([]Property, error) {
	where, args := filterToSQL(filter)

	query := fmt.Sprintf(`SELECT %s FROM properties %s ORDER BY created_at DESC`,
		propertyColumns, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching properties: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

// filterToSQL maps the abstract filter onto a WHERE clause with one
// placeholder per present value. Returns an empty string for an empty
// filter.
func filterToSQL(filter *Filter) (string, []any) {
	if filter == nil || filter.IsEmpty() {
		return "", nil
	}

	var clauses []string
	var args []any

	if filter.RentOrSale != nil {
		clauses = append(clauses, "rent_or_sale = ?")
		args = append(args, *filter.RentOrSale)
	}
	if filter.City != nil {
		clauses = append(clauses, "city = ?")
		args = append(args, *filter.City)
	}
	if filter.Bedrooms != nil {
		clauses = append(clauses, "bedrooms = ?")
		args = append(args, *filter.Bedrooms)
	}
	if filter.Bathrooms != nil {
		clauses = append(clauses, "bathrooms = ?")
		args = append(args, *filter.Bathrooms)
	}
	if filter.Price != nil {
		clauses = append(clauses, "price = ?")
		args = append(args, *filter.Price)
	}
	if filter.Keyword != nil {
		clauses = append(clauses, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		pattern := "%" + likeEscaper.Replace(strings.ToLower(*filter.Keyword)) + "%"
		args = append(args, pattern, pattern)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// likeEscaper makes LIKE metacharacters in a keyword literal, so "100%"
// matches the text "100%" rather than any text containing "100".
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Update replaces every mutable field of a listing.
func (r *propertyRepository) Update(ctx context.Context, p *Property) error {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshaling images: %w", err)
	}

	query := `UPDATE properties SET name = ?, address = ?, city = ?, state = ?,
	              postal_code = ?, property_type = ?, rent_or_sale = ?, price = ?,
	              bedrooms = ?, bathrooms = ?, square_feet = ?, lot_size = ?,
	              year_built = ?, description = ?, images = ?
	          WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Address, p.City, p.State, p.PostalCode,
		p.PropertyType, p.RentOrSale, p.Price, p.Bedrooms, p.Bathrooms,
		p.SquareFeet, p.LotSize, p.YearBuilt, p.Description, imagesJSON,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		// RowsAffected is also 0 for a no-op update of an existing row, so
		// distinguish by checking existence before reporting not-found.
		if _, ferr := r.FindByID(ctx, p.ID); ferr != nil {
			return ferr
		}
	}

	return nil
}

// UpdateImages replaces only the images column of a listing.
func (r *propertyRepository) UpdateImages(ctx context.Context, id string, images []string) error {
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("marshaling images: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE properties SET images = ? WHERE id = ?`, imagesJSON, id)
	if err != nil {
		return fmt.Errorf("updating property images: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return ferr
		}
	}

	return nil
}

// Delete removes a listing by ID.
// Returns apperror.NotFound if no listing exists with this ID.
func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("property not found")
	}

	return nil
}

// --- Row scanning ---

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProperty reads one listing row in propertyColumns order.
func scanProperty(row rowScanner) (*Property, error) {
	p := &Property{}
	var imagesRaw []byte

	err := row.Scan(
		&p.ID, &p.Name, &p.Address, &p.City, &p.State, &p.PostalCode,
		&p.PropertyType, &p.RentOrSale, &p.Price, &p.Bedrooms, &p.Bathrooms,
		&p.SquareFeet, &p.LotSize, &p.YearBuilt, &p.Description, &imagesRaw,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(imagesRaw) > 0 {
		if err := json.Unmarshal(imagesRaw, &p.Images); err != nil {
			return nil, fmt.Errorf("unmarshaling property images: %w", err)
		}
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	return p, nil
}

// collectProperties drains a result set into a slice.
func collectProperties(rows *sql.Rows) ([]Property, error) {
	var out []Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property row: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
