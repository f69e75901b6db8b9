package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/store"
	"github.com/pawmart/pawmart/internal/store/memory"
)

// missingID is a well-formed identifier no test document has.
const missingID = "01ARZ3NDEKTSV4RRFFQ69G5FAV"

func newTestStore() *memory.Store {
	return memory.New().WithUniqueField(model.CollectionUsers, model.UserFieldEmail)
}

func seed(t *testing.T, st store.Store, collection string, doc model.Document) string {
	t.Helper()
	res, err := st.Collection(collection).InsertOne(context.Background(), doc)
	require.NoError(t, err)
	return res.InsertedID.(string)
}

func fetch(t *testing.T, st store.Store, collection, id string) model.Document {
	t.Helper()
	doc, err := st.Collection(collection).FindOne(context.Background(), store.ByID(id))
	require.NoError(t, err)
	return doc
}

var errBoom = errors.New("connection reset")
