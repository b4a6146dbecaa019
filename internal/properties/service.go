package properties

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kinderhomes/kinder-estate/internal/apperror"
	"github.com/kinderhomes/kinder-estate/internal/sanitize"
)

// PropertyService defines the business logic contract for listings.
// Handlers call these methods -- they never touch the repository directly.
type PropertyService interface {
	Create(ctx context.Context, req *PropertyRequest) (*Property, error)
	Get(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context) ([]Property, error)
	Search(ctx context.Context, params map[string]string) ([]Property, error)
	Update(ctx context.Context, id string, req *PropertyRequest) (*Property, error)
	UpdateImages(ctx context.Context, id string, images []string) error
	Delete(ctx context.Context, id string) error
}

// propertyService implements PropertyService over the MariaDB repository.
type propertyService struct {
	repo         PropertyRepository
	storeTimeout time.Duration
}

// NewPropertyService creates a new listing service. storeTimeout bounds
// every data-access call.
func NewPropertyService(repo PropertyRepository, storeTimeout time.Duration) PropertyService {
	return &propertyService{
		repo:         repo,
		storeTimeout: storeTimeout,
	}
}

// boundCtx derives a context that expires after the configured store timeout.
func (s *propertyService) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// storeErr classifies a store failure: deadline/cancellation becomes a
// dependency-unavailable error, a typed domain error passes through, and
// anything else becomes an internal error.
func storeErr(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.NewUnavailable(fmt.Errorf("%s: %w", op, err))
	}
	return apperror.NewInternal(fmt.Errorf("%s: %w", op, err))
}

// Create validates and persists a new listing. Name and description are
// sanitized before storage; the frontend renders them verbatim.
func (s *propertyService) Create(ctx context.Context, req *PropertyRequest) (*Property, error) {
	p, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()

	cctx, cancel := s.boundCtx(ctx)
	defer cancel()

	if err := s.repo.Create(cctx, p); err != nil {
		return nil, storeErr("creating property", err)
	}

	slog.Info("property created",
		slog.String("property_id", p.ID),
		slog.String("city", p.City),
	)

	return p, nil
}

// Get retrieves a single listing by ID.
func (s *propertyService) Get(ctx context.Context, id string) (*Property, error) {
	cctx, cancel := s.boundCtx(ctx)
	defer cancel()

	p, err := s.repo.FindByID(cctx, id)
	if err != nil {
		return nil, storeErr("fetching property", err)
	}
	return p, nil
}

// List returns every listing.
func (s *propertyService) List(ctx context.Context) ([]Property, error) {
	cctx, cancel := s.boundCtx(ctx)
	defer cancel()

	out, err := s.repo.List(cctx)
	if err != nil {
		return nil, storeErr("listing properties", err)
	}
	return out, nil
}

// Search builds a structured filter from the raw query parameters and
// executes it. Coercion failures surface as invalid_search_parameter before
// any I/O happens.
func (s *propertyService) Search(ctx context.Context, params map[string]string) ([]Property, error) {
	filter, err := BuildFilter(params)
	if err != nil {
		return nil, err
	}

	cctx, cancel := s.boundCtx(ctx)
	defer cancel()

	out, err := s.repo.Search(cctx, filter)
	if err != nil {
		return nil, storeErr("searching properties", err)
	}
	return out, nil
}

// Update replaces a listing's fields with the submitted body.
func (s *propertyService) Update(ctx context.Context, id string, req *PropertyRequest) (*Property, error) {
	p, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	p.ID = id

	cctx, cancel := s.boundCtx(ctx)
	defer cancel()

	if err := s.repo.Update(cctx, p); err != nil {
		return nil, storeErr("updating property", err)
	}

	updated, err := s.repo.FindByID(cctx, id)
	if err != nil {
		return nil, storeErr("fetching property", err)
	}

	slog.Info("property updated", slog.String("property_id", id))
	return updated, nil
}

// UpdateImages replaces only a listing's image URLs.
func (s *propertyService) UpdateImages(ctx context.Context, id string, images []string) error {
	if images == nil {
		images = []string{}
	}

	cctx, cancel := s.boundCtx(ctx)
	defer cancel()

	if err := s.repo.UpdateImages(cctx, id, images); err != nil {
		return storeErr("updating property images", err)
	}

	slog.Info("property images updated",
		slog.String("property_id", id),
		slog.Int("count", len(images)),
	)
	return nil
}

// Delete removes a listing.
func (s *propertyService) Delete(ctx context.Context, id string) error {
	cctx, cancel := s.boundCtx(ctx)
	defer cancel()

	if err := s.repo.Delete(cctx, id); err != nil {
		return storeErr("deleting property", err)
	}

	slog.Info("property deleted", slog.String("property_id", id))
	return nil
}

// fromRequest validates the submitted body and maps it onto the domain
// model, sanitizing the free-text fields.
func fromRequest(req *PropertyRequest) (*Property, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return nil, apperror.NewBadRequest("property name is required")
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	return &Property{
		Name:         name,
		Address:      sanitize.Text(req.Address),
		City:         sanitize.Text(req.City),
		State:        sanitize.Text(req.State),
		PostalCode:   sanitize.Text(req.PostalCode),
		PropertyType: sanitize.Text(req.PropertyType),
		RentOrSale:   sanitize.Text(req.RentOrSale),
		Price:        req.Price,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		LotSize:      req.LotSize,
		YearBuilt:    req.YearBuilt,
		Description:  sanitize.Text(req.Description),
		Images:       images,
	}, nil
}
