package services

import (
	"context"
	"errors"
	"fmt"

	"foodtruck_backend/internal/models"
	"foodtruck_backend/internal/payments"
	"foodtruck_backend/internal/repositories"
	"foodtruck_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// OnlineMaxQuantity caps a single line in the public checkout.
const OnlineMaxQuantity = 50

// CartItemRequest is one line as submitted by a client. Any price the client
// sends is not part of this type and is never read.
type CartItemRequest struct {
	CategoryID string   `json:"categoryId"`
	ItemName   string   `json:"itemName"`
	Quantity   int      `json:"quantity"`
	Notes      []string `json:"notes,omitempty"`
}

type ResolveOptions struct {
	// MaxQuantity rejects lines above it; zero means unlimited.
	MaxQuantity int
}

// ResolvedCart is a cart priced from the stored menu.
type ResolvedCart struct {
	Items      []models.OrderItem
	LineItems  []payments.LineItem
	Total      float64
	TotalCents int64
}

// PriceResolver turns client carts into authoritatively priced lines.
type PriceResolver interface {
	Resolve(ctx context.Context, items []CartItemRequest, opts ResolveOptions) (*ResolvedCart, error)
}

type priceResolver struct {
	contentRepo repositories.ContentRepository
}

func NewPriceResolver(contentRepo repositories.ContentRepository) PriceResolver {
	return &priceResolver{contentRepo: contentRepo}
}

type menuEntry struct {
	price       decimal.Decimal
	displayName string
}

func menuKey(categoryID, itemName string) string {
	return categoryID + ":" + itemName
}

func buildMenuIndex(menu *models.MenuData) map[string]menuEntry {
	index := make(map[string]menuEntry)
	for _, category := range menu.Categories {
		for _, item := range category.Items {
			index[menuKey(category.ID, item.Name)] = menuEntry{
				price:       decimal.NewFromFloat(item.Price),
				displayName: fmt.Sprintf("%s (%s)", item.Name, category.Name),
			}
		}
	}
	return index
}

func (r *priceResolver) Resolve(ctx context.Context, items []CartItemRequest, opts ResolveOptions) (*ResolvedCart, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	menu, err := r.contentRepo.GetMenu(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuUnavailable
		}
		return nil, fmt.Errorf("%w: loading menu: %v", ErrMenuUnavailable, err)
	}
	index := buildMenuIndex(menu)

	cart := &ResolvedCart{
		Items:     make([]models.OrderItem, 0, len(items)),
		LineItems: make([]payments.LineItem, 0, len(items)),
	}
	total := decimal.Zero

	for _, req := range items {
		if req.CategoryID == "" || req.ItemName == "" || req.Quantity < 1 {
			return nil, ErrInvalidItem
		}
		if opts.MaxQuantity > 0 && req.Quantity > opts.MaxQuantity {
			return nil, fmt.Errorf("%w: invalid quantity for %s", ErrInvalidItem, req.ItemName)
		}
		if req.Notes != nil && len(req.Notes) != req.Quantity {
			return nil, fmt.Errorf("%w: notes for %s must have one entry per unit", ErrInvalidItem, req.ItemName)
		}

		entry, ok := index[menuKey(req.CategoryID, req.ItemName)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, req.ItemName)
		}

		unitPrice, _ := entry.price.Float64()
		line := models.OrderItem{
			CategoryID: req.CategoryID,
			ItemName:   req.ItemName,
			Quantity:   req.Quantity,
			UnitPrice:  unitPrice,
		}
		if hasAnyNote(req.Notes) {
			line.Notes = append([]string(nil), req.Notes...)
		}
		cart.Items = append(cart.Items, line)
		cart.LineItems = append(cart.LineItems, payments.LineItem{
			Name:            entry.displayName,
			UnitAmountCents: utils.ToCents(entry.price),
			Quantity:        int64(req.Quantity),
		})
		total = total.Add(entry.price.Mul(decimal.NewFromInt(int64(req.Quantity))))
	}

	cart.Total = utils.RoundMoney(total)
	cart.TotalCents = utils.ToCents(total)
	return cart, nil
}

func hasAnyNote(notes []string) bool {
	for _, n := range notes {
		if !utils.IsEmpty(n) {
			return true
		}
	}
	return false
}
