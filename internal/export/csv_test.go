package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ecommerce-edge/internal/model"
)

func fixtureOrder() model.Order {
	return model.Order{
		ID:           "a1b2c3d4-0000-0000-0000-000000000000",
		Status:       model.OrderStatusPlaced,
		Subtotal:     100.00,
		ShippingCost: 10.00,
		Discount:     5.00,
		Total:        105.00,
	}
}

func fixtureItems() []model.OrderItem {
	return []model.OrderItem{
		{
			Product:   model.ProductSnapshot{SKU: "NB-001", Name: "Notebook", Category: "Electronics"},
			Quantity:  2,
			UnitPrice: 50.00,
			LineTotal: 100.00,
		},
	}
}

func TestRenderSimpleCSV(t *testing.T) {
	got := RenderSimpleCSV(fixtureOrder(), fixtureItems())

	want := "SKU,Product,Quantity,Price,Total\n" +
		"NB-001,Notebook,2,50.00,100.00\n" +
		"\n" +
		"Subtotal,,,,100.00\n" +
		"Shipping,,,,10.00\n" +
		"TOTAL,,,,105.00\n"
	require.Equal(t, want, got)
}

func TestRenderSimpleCSVSnapshotFallbacks(t *testing.T) {
	items := []model.OrderItem{{Quantity: 1, UnitPrice: 9.90, LineTotal: 9.90}}
	got := RenderSimpleCSV(fixtureOrder(), items)

	require.Contains(t, got, "N/A,Product,1,9.90,9.90\n")
}

func TestCSVEscaping(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comma", "Widget, Deluxe", `"Widget, Deluxe"`},
		{"quote", `Bob"s`, `"Bob""s"`},
		{"newline", "line1\nline2", "\"line1\nline2\""},
		{"plain", "Notebook", "Notebook"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []model.OrderItem{{
				Product:   model.ProductSnapshot{SKU: "X-001", Name: tt.in},
				Quantity:  1,
				UnitPrice: 1,
				LineTotal: 1,
			}}
			got := RenderSimpleCSV(fixtureOrder(), items)
			require.Contains(t, got, "X-001,"+tt.want+",1,1.00,1.00\n")
		})
	}
}

func TestRenderDetailedCSVSections(t *testing.T) {
	exp := model.OrderExport{
		Order:    fixtureOrder(),
		Customer: model.Customer{FullName: "Maria Silva", Email: "maria@email.com"},
		Items:    fixtureItems(),
	}
	exp.Order.CreatedAt = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	exp.Order.PaymentMethod = "credit_card"
	exp.Order.PaymentInfo = map[string]any{
		"card_number":  "4111111111111111",
		"cvv":          "123",
		"installments": "3",
	}
	exp.Order.Notes = "leave at the, front door"
	generatedAt := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	got := RenderDetailedCSV(exp, generatedAt)

	require.Contains(t, got, "===== ORDER INFORMATION =====\n")
	require.Contains(t, got, "Status,placed\n")
	require.Contains(t, got, "Created At,01/03/2024 10:30\n")
	require.Contains(t, got, "Name,Maria Silva\n")

	// 1-based item index column
	require.Contains(t, got, "1,NB-001,Notebook,Electronics,2,50.00,100.00\n")

	require.Contains(t, got, "Discount,5.00\n")
	require.Contains(t, got, "TOTAL,105.00\n")

	// sensitive payment keys are redacted, the rest exported
	require.NotContains(t, got, "4111111111111111")
	require.NotContains(t, got, "cvv")
	require.Contains(t, got, "installments,3\n")

	require.Contains(t, got, "\"leave at the, front door\"\n")
	require.Contains(t, got, "Exported at,02/03/2024 09:00\n")
}

func TestRenderDetailedCSVNonStringPaymentValues(t *testing.T) {
	exp := model.OrderExport{Order: fixtureOrder(), Items: fixtureItems()}
	exp.Order.PaymentMethod = "pix"

	// payment_info is free-form jsonb; numbers and booleans are legal
	raw := []byte(`{"installments":3,"fee":1.25,"approved":true,"voucher":null}`)
	require.NoError(t, json.Unmarshal(raw, &exp.Order.PaymentInfo))

	got := RenderDetailedCSV(exp, time.Time{})

	require.Contains(t, got, "approved,true\n")
	require.Contains(t, got, "fee,1.25\n")
	require.Contains(t, got, "installments,3\n")
	require.Contains(t, got, "voucher,\n")
}

func TestRenderDetailedCSVOmitsEmptyNotes(t *testing.T) {
	exp := model.OrderExport{Order: fixtureOrder(), Items: fixtureItems()}
	got := RenderDetailedCSV(exp, time.Time{})

	require.NotContains(t, got, "===== NOTES =====")
	require.Contains(t, got, "Exported at,N/A\n")
}

func TestRenderPreservesItemOrder(t *testing.T) {
	items := []model.OrderItem{
		{Product: model.ProductSnapshot{SKU: "Z-900", Name: "Zebra"}, Quantity: 1, UnitPrice: 1, LineTotal: 1},
		{Product: model.ProductSnapshot{SKU: "A-100", Name: "Apple"}, Quantity: 1, UnitPrice: 1, LineTotal: 1},
	}
	got := RenderSimpleCSV(fixtureOrder(), items)

	require.Less(t, strings.Index(got, "Z-900"), strings.Index(got, "A-100"))
}

func TestRenderIdempotent(t *testing.T) {
	exp := model.OrderExport{
		Order:    fixtureOrder(),
		Customer: model.Customer{FullName: "Maria Silva"},
		Items:    fixtureItems(),
	}
	exp.Order.PaymentInfo = map[string]any{"b": "2", "a": "1", "installments": "3"}
	generatedAt := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	require.Equal(t, RenderSimpleCSV(exp.Order, exp.Items), RenderSimpleCSV(exp.Order, exp.Items))
	require.Equal(t, RenderDetailedCSV(exp, generatedAt), RenderDetailedCSV(exp, generatedAt))
}
