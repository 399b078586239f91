package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/sweet-shop-service/internal/domain"
	"github.com/spec-kit/sweet-shop-service/internal/events"
	"github.com/spec-kit/sweet-shop-service/internal/repository"
	apperrors "github.com/spec-kit/sweet-shop-service/pkg/util"
)

// CatalogCache is the read cache consulted before listing the catalog.
// Implementations treat every failure as a miss.
type CatalogCache interface {
	GetList(ctx context.Context) ([]domain.Sweet, bool)
	SetList(ctx context.Context, sweets []domain.Sweet)
	Invalidate(ctx context.Context)
}

// SweetService coordinates catalog workflows.
type SweetService struct {
	sweets     repository.SweetRepository
	cache      CatalogCache
	dispatcher events.Dispatcher
}

// SweetDependencies bundles requirements for the sweet service.
type SweetDependencies struct {
	SweetRepo  repository.SweetRepository
	Cache      CatalogCache
	Dispatcher events.Dispatcher
}

// SweetCreateInput describes catalog creation payload.
type SweetCreateInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int
}

// SweetUpdateInput carries the partial update; nil fields stay untouched.
type SweetUpdateInput struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
	Quantity *int
}

// NewSweetService constructs the service.
func NewSweetService(deps SweetDependencies) *SweetService {
	return &SweetService{
		sweets:     deps.SweetRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// Create persists a new sweet. Quantity defaults to zero upstream; a
// negative value never reaches the ledger.
func (s *SweetService) Create(ctx context.Context, actor events.Actor, input SweetCreateInput) (*domain.Sweet, error) {
	sweet := &domain.Sweet{
		Name:     strings.TrimSpace(input.Name),
		Category: strings.TrimSpace(input.Category),
		Price:    input.Price,
		Quantity: input.Quantity,
	}
	if err := validateSweet(sweet); err != nil {
		return nil, err
	}

	if err := s.sweets.Create(ctx, sweet); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventSweetCreated,
		SweetID: sweet.ID,
		Actor:   actor,
		Payload: events.SweetCreatedPayload{
			Name:     sweet.Name,
			Category: sweet.Category,
			Price:    sweet.Price,
			Quantity: sweet.Quantity,
		},
	})
	return sweet, nil
}

// List returns the full catalog, newest first.
func (s *SweetService) List(ctx context.Context) ([]domain.Sweet, error) {
	if s.cache != nil {
		if sweets, ok := s.cache.GetList(ctx); ok {
			return sweets, nil
		}
	}
	sweets, err := s.sweets.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetList(ctx, sweets)
	}
	return sweets, nil
}

// Search matches the term as a substring of name or category. A blank
// term applies no filter and returns the full catalog.
func (s *SweetService) Search(ctx context.Context, term string) ([]domain.Sweet, error) {
	if strings.TrimSpace(term) == "" {
		return s.List(ctx)
	}
	return s.sweets.Search(ctx, term)
}

// Update merges the provided fields into the stored sweet.
func (s *SweetService) Update(ctx context.Context, actor events.Actor, id string, input SweetUpdateInput) (*domain.Sweet, error) {
	sweet, err := s.sweets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sweet")
		}
		return nil, err
	}

	if input.Name != nil {
		sweet.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		sweet.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		sweet.Price = *input.Price
	}
	if input.Quantity != nil {
		sweet.Quantity = *input.Quantity
	}
	if err := validateSweet(sweet); err != nil {
		return nil, err
	}

	if err := s.sweets.Update(ctx, sweet); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sweet")
		}
		return nil, err
	}
	s.invalidate(ctx)
	s.publish(ctx, events.Event{Type: events.EventSweetUpdated, SweetID: sweet.ID, Actor: actor})
	return sweet, nil
}

// Delete permanently removes the sweet.
func (s *SweetService) Delete(ctx context.Context, actor events.Actor, id string) error {
	if err := s.sweets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("sweet")
		}
		return err
	}
	s.invalidate(ctx)
	s.publish(ctx, events.Event{Type: events.EventSweetDeleted, SweetID: id, Actor: actor})
	return nil
}

// Purchase decrements stock by one via a single conditional write. Two
// concurrent purchases at quantity 1 yield one success and one
// OutOfStock, never a negative quantity.
func (s *SweetService) Purchase(ctx context.Context, actor events.Actor, id string) (*domain.Sweet, error) {
	sweet, err := s.sweets.DecrementStock(ctx, id)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		// No row qualified: absent sweet vs. sold out.
		if _, getErr := s.sweets.GetByID(ctx, id); getErr != nil {
			if errors.Is(getErr, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("sweet")
			}
			return nil, getErr
		}
		return nil, apperrors.NewOutOfStock()
	}

	s.invalidate(ctx)
	s.publish(ctx, events.Event{
		Type:    events.EventSweetPurchased,
		SweetID: sweet.ID,
		Actor:   actor,
		Payload: events.SweetPurchasedPayload{Name: sweet.Name, Remaining: sweet.Quantity},
	})
	if sweet.Quantity == 0 {
		s.publish(ctx, events.Event{
			Type:    events.EventStockDepleted,
			SweetID: sweet.ID,
			Actor:   actor,
			Payload: events.StockDepletedPayload{Name: sweet.Name},
		})
	}
	return sweet, nil
}

func validateSweet(sweet *domain.Sweet) error {
	if sweet.Name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}
	if sweet.Price.IsNegative() {
		return apperrors.NewValidationError("price must not be negative", nil)
	}
	if sweet.Quantity < 0 {
		return apperrors.NewValidationError("quantity must not be negative", nil)
	}
	return nil
}

func (s *SweetService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *SweetService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
