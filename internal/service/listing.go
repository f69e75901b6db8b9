package service

import (
	"context"
	"errors"
	"time"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/metrics"
	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/policy"
	"github.com/pawmart/pawmart/internal/store"
)

// DefaultLatestLimit is the size of the latest listings feed when not configured.
const DefaultLatestLimit = 6

// ListingService handles marketplace listings.
type ListingService struct {
	listings    ownedCollection
	latestLimit int64
	now         func() time.Time
}

// NewListingService creates a new ListingService. A non-positive
// latestLimit falls back to DefaultLatestLimit.
func NewListingService(st store.Store, latestLimit int, recorder metrics.Recorder) *ListingService {
	if latestLimit <= 0 {
		latestLimit = DefaultLatestLimit
	}
	return &ListingService{
		listings: ownedCollection{
			collection: newCollection(st, model.CollectionListings, recorder),
			authz:      policy.Listings(),
			controlled: model.ListingControlledFields,
		},
		latestLimit: int64(latestLimit),
		now:         time.Now,
	}
}

// List returns all listings, optionally restricted to one category.
func (s *ListingService) List(ctx context.Context, category string) ([]model.Document, error) {
	filter := store.Filter{}
	if category != "" {
		filter[model.ListingFieldCategory] = category
	}

	docs, err := s.listings.coll.Find(ctx, filter, store.FindOptions{})
	if err != nil {
		return nil, s.listings.fail("list", err)
	}
	return docs, nil
}

// Latest returns the most recently created listings, newest first.
func (s *ListingService) Latest(ctx context.Context) ([]model.Document, error) {
	docs, err := s.listings.coll.Find(ctx, store.Filter{}, store.FindOptions{
		Sort:  &store.Sort{Field: model.ListingFieldCreatedAt, Direction: store.Descending},
		Limit: s.latestLimit,
	})
	if err != nil {
		return nil, s.listings.fail("list latest", err)
	}
	return docs, nil
}

// Mine returns the listings owned by subject.
func (s *ListingService) Mine(ctx context.Context, subject auth.Subject) ([]model.Document, error) {
	docs, err := s.listings.coll.Find(ctx, store.Filter{model.ListingFieldOwnerEmail: subject.Email}, store.FindOptions{})
	if err != nil {
		return nil, s.listings.fail("list own", err)
	}
	return docs, nil
}

// Create stores a listing owned by subject, stamped with the creation time.
func (s *ListingService) Create(ctx context.Context, subject auth.Subject, doc model.Document) (*CreateResult, error) {
	listing := doc.Without(model.ListingControlledFields...)
	listing[model.ListingFieldOwnerEmail] = subject.Email
	listing[model.ListingFieldCreatedAt] = model.FormatTimestamp(s.now())

	res, err := s.listings.insert(ctx, listing)
	if err != nil {
		return nil, s.listings.fail("insert", err)
	}
	return res, nil
}

// Get returns a listing by id.
func (s *ListingService) Get(ctx context.Context, id string) (model.Document, error) {
	parsed, err := s.listings.parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.listings.coll.FindOne(ctx, store.ByID(parsed))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, s.listings.fail("find", err)
	}
	return doc, nil
}

// Update applies changes to a listing owned by subject.
func (s *ListingService) Update(ctx context.Context, subject auth.Subject, id string, changes model.Document) (*UpdateResult, error) {
	return s.listings.update(ctx, subject, id, changes)
}

// Delete removes a listing owned by subject.
func (s *ListingService) Delete(ctx context.Context, subject auth.Subject, id string) (*DeleteResult, error) {
	res, _, err := s.listings.remove(ctx, subject, id)
	return res, err
}
