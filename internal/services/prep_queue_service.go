package services

import (
	"context"
	"sort"
	"time"

	"foodtruck_backend/internal/models"
)

// RecentlyDoneWindow keeps fully prepared orders on screen briefly for pickup.
const RecentlyDoneWindow = 15 * time.Minute

type PrepQueue struct {
	Orders    []models.Order `json:"orders"`
	Timestamp time.Time      `json:"timestamp"`
}

// PrepQueueService projects paid orders into the kitchen display.
type PrepQueueService interface {
	GetQueue(ctx context.Context) (*PrepQueue, error)
}

type prepQueueService struct {
	orderService OrderService
	now          func() time.Time
}

func NewPrepQueueService(orderService OrderService) PrepQueueService {
	return &prepQueueService{orderService: orderService, now: func() time.Time { return time.Now().UTC() }}
}

func (s *prepQueueService) GetQueue(ctx context.Context) (*PrepQueue, error) {
	orders, err := s.orderService.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &PrepQueue{Orders: ProjectPrepQueue(orders, now), Timestamp: now}, nil
}

// ProjectPrepQueue keeps paid orders with queued or started units, plus fully
// done orders last touched less than RecentlyDoneWindow ago, oldest first.
// Returned items always carry a full prepStatuses slice.
func ProjectPrepQueue(orders []models.Order, now time.Time) []models.Order {
	out := []models.Order{}
	for _, o := range orders {
		if o.Status != models.OrderStatusPaid {
			continue
		}
		active, allDone := false, true
		for _, item := range o.Items {
			for u := 0; u < item.Quantity; u++ {
				switch item.UnitStatus(u) {
				case models.PrepStatusQueued, models.PrepStatusStarted:
					active = true
					allDone = false
				case models.PrepStatusDone:
				default:
					allDone = false
				}
			}
		}
		if !active && !(allDone && now.Sub(o.LastTouched()) < RecentlyDoneWindow) {
			continue
		}

		view := o
		view.Items = make([]models.OrderItem, len(o.Items))
		for i, item := range o.Items {
			item.PrepStatuses = normalizedPrepStatuses(item)
			view.Items[i] = item
		}
		out = append(out, view)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
