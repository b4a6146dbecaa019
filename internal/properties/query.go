package properties

import (
	"strconv"

	"github.com/kinderhomes/kinder-estate/internal/apperror"
)

// Filter is the store-agnostic representation of a search query's match
// conditions. Each field is optional: nil means "don't filter on this",
// never "filter on the zero value". The repository owns the translation to
// SQL; this type performs no I/O.
type Filter struct {
	RentOrSale *string
	City       *string
	Bedrooms   *int
	Bathrooms  *float64
	Price      *float64

	// Keyword produces a disjunctive case-insensitive partial match over
	// the name and description fields.
	Keyword *string
}

// IsEmpty reports whether the filter carries no clauses, i.e. it matches
// every listing.
func (f *Filter) IsEmpty() bool {
	return f.RentOrSale == nil && f.City == nil && f.Bedrooms == nil &&
		f.Bathrooms == nil && f.Price == nil && f.Keyword == nil
}

// BuildFilter translates the raw search parameters into a Filter. Each
// recognized field is coerced to its declared type; a non-numeric value for
// a numeric field fails with invalid_search_parameter naming the field
// rather than being silently dropped or zero-filled. Parameters that are
// absent (or present but empty) contribute no clause, and unrecognized
// parameters are ignored. An empty parameter set yields a filter matching
// every listing.
func BuildFilter(params map[string]string) (*Filter, error) {
	f := &Filter{}

	if v, ok := present(params, "rentOrSale"); ok {
		f.RentOrSale = &v
	}
	if v, ok := present(params, "city"); ok {
		f.City = &v
	}
	if v, ok := present(params, "bedrooms"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, apperror.NewInvalidSearchParameter("bedrooms")
		}
		f.Bedrooms = &n
	}
	if v, ok := present(params, "bathrooms"); ok {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperror.NewInvalidSearchParameter("bathrooms")
		}
		f.Bathrooms = &n
	}
	if v, ok := present(params, "price"); ok {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperror.NewInvalidSearchParameter("price")
		}
		f.Price = &n
	}
	if v, ok := present(params, "keyword"); ok {
		f.Keyword = &v
	}

	return f, nil
}

// present returns a parameter's value and whether it should contribute a
// clause. An empty value is treated as absent, matching the open-world
// contract: absence means "don't filter", never "match empty string".
func present(params map[string]string, key string) (string, bool) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
