package repositories

import (
	"context"
	"strings"

	"foodtruck_backend/internal/models"
)

// squareSessionPrefix marks the session id Square's success redirect carries.
const squareSessionPrefix = "sq_"

// OrderRepository persists orders as one "orders" document.
type OrderRepository interface {
	List(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	// Update applies fn to the order and persists it only when fn reports a change.
	Update(ctx context.Context, orderID string, fn func(*models.Order) (bool, error)) (*models.Order, error)
}

type orderRepository struct {
	list *documentList[models.Order]
}

func NewOrderRepository(store DocumentStore) OrderRepository {
	return &orderRepository{list: &documentList[models.Order]{store: store, key: models.ContentOrders}}
}

func (r *orderRepository) List(ctx context.Context) ([]models.Order, error) {
	return r.list.all(ctx)
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	orders, err := r.list.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == orderID {
			return &orders[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.list.append(ctx, *order)
}

// FindBySessionID matches providerSessionId first, then the legacy
// stripeSessionId, then Square's "sq_<orderId>" redirect form. The last
// only resolves orders created through a payment link.
func (r *orderRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	if sessionID == "" {
		return nil, ErrNotFound
	}
	orders, err := r.list.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ProviderSessionID == sessionID {
			return &orders[i], nil
		}
	}
	for i := range orders {
		if orders[i].StripeSessionID == sessionID {
			return &orders[i], nil
		}
	}
	if orderID, ok := strings.CutPrefix(sessionID, squareSessionPrefix); ok && orderID != "" {
		for i := range orders {
			if orders[i].ID == orderID && orders[i].ViaPaymentLink() {
				return &orders[i], nil
			}
		}
	}
	return nil, ErrNotFound
}

func (r *orderRepository) Update(ctx context.Context, orderID string, fn func(*models.Order) (bool, error)) (*models.Order, error) {
	return r.list.modify(ctx, func(o *models.Order) bool { return o.ID == orderID }, fn)
}
