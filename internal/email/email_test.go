package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ecommerce-edge/internal/model"
)

func fixtureExport() model.OrderExport {
	return model.OrderExport{
		Order: model.Order{
			ID:     "a1b2c3d4-0000-0000-0000-000000000000",
			Status: model.OrderStatusShipped,
			Total:  105.00,
		},
		Customer: model.Customer{FullName: "Maria Silva", Email: "maria@email.com"},
		Items: []model.OrderItem{
			{Product: model.ProductSnapshot{SKU: "NB-001", Name: "Notebook"}, Quantity: 2, UnitPrice: 50.00, LineTotal: 100.00},
		},
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"", KindConfirmation},
		{"confirmation", KindConfirmation},
		{"shipped", KindShipped},
		{"delivered", KindDelivered},
		{"status_update", KindStatusUpdate},
		{"bogus-kind", KindStatusUpdate},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ParseKind(tt.in), "input %q", tt.in)
	}
}

func TestRenderUnknownKindFallsBack(t *testing.T) {
	r := NewRenderer("https://shop.example")

	bogus, err := r.Render(fixtureExport(), Kind("bogus-kind"))
	require.NoError(t, err)
	status, err := r.Render(fixtureExport(), KindStatusUpdate)
	require.NoError(t, err)

	require.Equal(t, status, bogus)
}

func TestRenderConfirmation(t *testing.T) {
	r := NewRenderer("https://shop.example")

	content, err := r.Render(fixtureExport(), KindConfirmation)
	require.NoError(t, err)

	require.Equal(t, "Order #a1b2c3d4 confirmed!", content.Subject)
	require.Contains(t, content.Text, "Notebook (NB-001)")
	require.Contains(t, content.Text, "Quantity: 2")
	require.Contains(t, content.Text, "TOTAL: 105.00")
	require.Contains(t, content.Text, "https://shop.example/orders/a1b2c3d4-0000-0000-0000-000000000000")

	// text and HTML present the same item set and total
	require.Contains(t, content.HTML, "Notebook (NB-001)")
	require.Contains(t, content.HTML, "105.00")
	require.Contains(t, content.HTML, "<td>2</td>")
}

func TestRenderKindSubjects(t *testing.T) {
	r := NewRenderer("https://shop.example")

	tests := []struct {
		kind    Kind
		subject string
	}{
		{KindShipped, "Your order #a1b2c3d4 is on its way!"},
		{KindDelivered, "Order #a1b2c3d4 delivered!"},
		{KindStatusUpdate, "Order #a1b2c3d4 status update"},
	}
	for _, tt := range tests {
		content, err := r.Render(fixtureExport(), tt.kind)
		require.NoError(t, err)
		require.Equal(t, tt.subject, content.Subject)
		require.NotEmpty(t, content.Text)
		require.NotEmpty(t, content.HTML)
	}
}

func TestRenderEscapesCustomerName(t *testing.T) {
	r := NewRenderer("https://shop.example")
	exp := fixtureExport()
	exp.Customer.FullName = `<script>alert("x")</script>`

	for _, kind := range []Kind{KindConfirmation, KindShipped, KindDelivered, KindStatusUpdate} {
		content, err := r.Render(exp, kind)
		require.NoError(t, err)
		require.NotContains(t, content.HTML, "<script>", "kind %s", kind)
		require.Contains(t, content.HTML, "&lt;script&gt;", "kind %s", kind)
		// plain text is left as-is
		require.Contains(t, content.Text, `<script>`, "kind %s", kind)
	}
}

func TestRenderStatusUpdateBody(t *testing.T) {
	r := NewRenderer("https://shop.example")

	content, err := r.Render(fixtureExport(), KindStatusUpdate)
	require.NoError(t, err)

	require.Contains(t, content.Text, "Order status: shipped")
	require.Contains(t, content.HTML, "<strong>shipped</strong>")
}

func TestRenderIdempotent(t *testing.T) {
	r := NewRenderer("https://shop.example")

	first, err := r.Render(fixtureExport(), KindConfirmation)
	require.NoError(t, err)
	second, err := r.Render(fixtureExport(), KindConfirmation)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.True(t, strings.HasPrefix(first.Text, "Hello Maria Silva,"))
}
