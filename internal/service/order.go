package service

import (
	"context"
	"errors"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/metrics"
	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/store"
)

// OrderService handles orders.
type OrderService struct {
	orders collection
}

// NewOrderService creates a new OrderService.
func NewOrderService(st store.Store, recorder metrics.Recorder) *OrderService {
	return &OrderService{orders: newCollection(st, model.CollectionOrders, recorder)}
}

// List returns the orders placed by subject.
func (s *OrderService) List(ctx context.Context, subject auth.Subject) ([]model.Document, error) {
	docs, err := s.orders.coll.Find(ctx, store.Filter{model.OrderFieldBuyerEmail: subject.Email}, store.FindOptions{})
	if err != nil {
		return nil, s.orders.fail("list", err)
	}
	return docs, nil
}

// Create stores the order as supplied.
func (s *OrderService) Create(ctx context.Context, doc model.Document) (*CreateResult, error) {
	res, err := s.orders.insert(ctx, doc.Without(model.FieldID))
	if err != nil {
		return nil, s.orders.fail("insert", err)
	}
	return res, nil
}

// Get returns an order by id.
func (s *OrderService) Get(ctx context.Context, id string) (model.Document, error) {
	parsed, err := s.orders.parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.orders.coll.FindOne(ctx, store.ByID(parsed))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, s.orders.fail("find", err)
	}
	return doc, nil
}

// Delete removes an order by id.
func (s *OrderService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	parsed, err := s.orders.parseID(id)
	if err != nil {
		return nil, err
	}

	res, err := s.orders.coll.DeleteOne(ctx, store.ByID(parsed))
	if err != nil {
		return nil, s.orders.fail("delete", err)
	}
	if res.DeletedCount > 0 {
		s.orders.metrics.IncDocumentDeleted(s.orders.name)
	}
	return &DeleteResult{DeletedCount: res.DeletedCount}, nil
}
