package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"ecommerce-edge/internal/model"
	"ecommerce-edge/internal/store/config"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		t.Skip("DATABASE_DSN not set")
	}
	store, err := NewStore(config.Config{DBDsn: dsn})
	require.NoError(t, err)
	return store
}

func TestStoreOrderExport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	profileID, err := store.ProfilePost(ctx, model.Profile{
		FullName: "Maria Silva",
		Email:    uuid.NewString() + "@test.local",
		CPF:      "123.456.789-00",
		Phone:    "(11) 98765-4321",
		Address: model.Address{
			Street:  "Rua A",
			Number:  "123",
			City:    "São Paulo",
			State:   "SP",
			Zipcode: "01234-567",
		},
	})
	require.NoError(t, err)

	productID, err := store.ProductPost(ctx, model.Product{
		SKU:      "TST-" + uuid.NewString()[:8],
		Name:     "Notebook Dell",
		Price:    4299.90,
		Stock:    15,
		Category: "Electronics",
	})
	require.NoError(t, err)

	orderID, err := store.OrderPost(ctx, model.Order{
		Status:       model.OrderStatusPlaced,
		Subtotal:     100.00,
		ShippingCost: 10.00,
		Discount:     5.00,
		Total:        105.00,
		ShippingAddress: model.Address{
			Street: "Rua A",
			Number: "123",
			City:   "São Paulo",
			State:  "SP",
		},
	}, profileID)
	require.NoError(t, err)

	// two items to verify insertion order survives the round trip
	first := model.OrderItem{
		Product:   model.ProductSnapshot{SKU: "NB-001", Name: "Notebook", Category: "Electronics"},
		Quantity:  2,
		UnitPrice: 50.00,
		LineTotal: 100.00,
	}
	second := model.OrderItem{
		Product:   model.ProductSnapshot{SKU: "SM-001", Name: "Galaxy S23"},
		Quantity:  1,
		UnitPrice: 3599.00,
		LineTotal: 3599.00,
	}
	require.NoError(t, store.OrderItemPost(ctx, orderID, productID, first))
	require.NoError(t, store.OrderItemPost(ctx, orderID, productID, second))

	exp, err := store.OrderExportGet(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, orderID, exp.Order.ID)
	require.Equal(t, model.OrderStatusPlaced, exp.Order.Status)
	require.Equal(t, 105.00, exp.Order.Total)
	require.Equal(t, "Maria Silva", exp.Customer.FullName)
	require.Equal(t, "São Paulo", exp.Order.ShippingAddress.City)
	require.Len(t, exp.Items, 2)
	require.Equal(t, first, exp.Items[0])
	require.Equal(t, second, exp.Items[1])

	require.NoError(t, store.OrderEventPost(ctx, model.OrderEvent{
		OrderID:     orderID,
		EventType:   model.EventTypeExportCSV,
		Description: "CSV exported in simple format",
		Metadata:    map[string]any{"format": "simple", "items_count": 2},
	}))
}

func TestStoreOrderExportNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.OrderExportGet(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrNoRows)
}

func TestStoreProfileAlreadyExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	email := uuid.NewString() + "@test.local"
	_, err := store.ProfilePost(ctx, model.Profile{FullName: "A", Email: email})
	require.NoError(t, err)

	_, err = store.ProfilePost(ctx, model.Profile{FullName: "B", Email: email})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStoreTableProbe(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, table := range []string{"profiles", "products", "orders", "order_items", "order_events"} {
		require.NoError(t, store.TableProbe(ctx, table))
	}
	require.Error(t, store.TableProbe(ctx, "missing_table"))
}
