// Package export renders an order into one of two CSV report
// variants. Rendering is pure: identical input yields byte-identical
// output, and items keep the order supplied by the caller.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"ecommerce-edge/internal/model"
)

const (
	FormatSimple   = "simple"
	FormatDetailed = "detailed"
)

// RenderSimpleCSV writes one row per item plus summary rows for the
// order totals, with placeholder cells in the non-applicable columns.
func RenderSimpleCSV(order model.Order, items []model.OrderItem) string {
	var b strings.Builder

	b.WriteString("SKU,Product,Quantity,Price,Total\n")

	for _, item := range items {
		sku := escapeCSV(fallback(item.Product.SKU, "N/A"))
		name := escapeCSV(fallback(item.Product.Name, "Product"))
		fmt.Fprintf(&b, "%s,%s,%d,%s,%s\n", sku, name, item.Quantity, money(item.UnitPrice), money(item.LineTotal))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal,,,,%s\n", money(order.Subtotal))
	fmt.Fprintf(&b, "Shipping,,,,%s\n", money(order.ShippingCost))
	fmt.Fprintf(&b, "TOTAL,,,,%s\n", money(order.Total))

	return b.String()
}

// RenderDetailedCSV writes the multi-section report. generatedAt is
// the "exported at" footer timestamp and is the only time-dependent
// field, supplied by the caller to keep rendering deterministic.
func RenderDetailedCSV(exp model.OrderExport, generatedAt time.Time) string {
	order := exp.Order
	customer := exp.Customer
	address := order.ShippingAddress

	var b strings.Builder

	b.WriteString("===== ORDER INFORMATION =====\n")
	fmt.Fprintf(&b, "Order ID,%s\n", escapeCSV(order.ID))
	fmt.Fprintf(&b, "Status,%s\n", escapeCSV(order.Status))
	fmt.Fprintf(&b, "Created At,%s\n", formatDateTime(order.CreatedAt))
	fmt.Fprintf(&b, "Updated At,%s\n", formatDateTime(order.UpdatedAt))
	b.WriteString("\n")

	b.WriteString("===== CUSTOMER =====\n")
	fmt.Fprintf(&b, "Name,%s\n", escapeCSV(fallback(customer.FullName, "N/A")))
	fmt.Fprintf(&b, "Email,%s\n", escapeCSV(fallback(customer.Email, "N/A")))
	fmt.Fprintf(&b, "CPF,%s\n", escapeCSV(fallback(customer.CPF, "N/A")))
	fmt.Fprintf(&b, "Phone,%s\n", escapeCSV(fallback(customer.Phone, "N/A")))
	b.WriteString("\n")

	b.WriteString("===== SHIPPING ADDRESS =====\n")
	fmt.Fprintf(&b, "Street,%s\n", escapeCSV(fallback(address.Street, "N/A")))
	fmt.Fprintf(&b, "Number,%s\n", escapeCSV(fallback(address.Number, "N/A")))
	fmt.Fprintf(&b, "Complement,%s\n", escapeCSV(address.Complement))
	fmt.Fprintf(&b, "Neighborhood,%s\n", escapeCSV(fallback(address.Neighborhood, "N/A")))
	fmt.Fprintf(&b, "City,%s\n", escapeCSV(fallback(address.City, "N/A")))
	fmt.Fprintf(&b, "State,%s\n", escapeCSV(fallback(address.State, "N/A")))
	fmt.Fprintf(&b, "Zipcode,%s\n", escapeCSV(fallback(address.Zipcode, "N/A")))
	b.WriteString("\n")

	b.WriteString("===== ORDER ITEMS =====\n")
	b.WriteString("Item,SKU,Product,Category,Quantity,Unit Price,Subtotal\n")
	for i, item := range exp.Items {
		fmt.Fprintf(&b, "%d,%s,%s,%s,%d,%s,%s\n",
			i+1,
			escapeCSV(fallback(item.Product.SKU, "N/A")),
			escapeCSV(fallback(item.Product.Name, "Product")),
			escapeCSV(fallback(item.Product.Category, "N/A")),
			item.Quantity,
			money(item.UnitPrice),
			money(item.LineTotal))
	}
	b.WriteString("\n")

	b.WriteString("===== FINANCIAL SUMMARY =====\n")
	fmt.Fprintf(&b, "Subtotal (items),%s\n", money(order.Subtotal))
	fmt.Fprintf(&b, "Shipping,%s\n", money(order.ShippingCost))
	fmt.Fprintf(&b, "Discount,%s\n", money(order.Discount))
	fmt.Fprintf(&b, "TOTAL,%s\n", money(order.Total))
	b.WriteString("\n")

	b.WriteString("===== PAYMENT INFORMATION =====\n")
	fmt.Fprintf(&b, "Payment Method,%s\n", escapeCSV(fallback(order.PaymentMethod, "N/A")))
	for _, key := range sortedKeys(order.PaymentInfo) {
		// card data never leaves the store
		if key == "card_number" || key == "cvv" {
			continue
		}
		fmt.Fprintf(&b, "%s,%s\n", escapeCSV(key), escapeCSV(stringify(order.PaymentInfo[key])))
	}
	b.WriteString("\n")

	if order.Notes != "" {
		b.WriteString("===== NOTES =====\n")
		b.WriteString(escapeCSV(order.Notes) + "\n")
		b.WriteString("\n")
	}

	b.WriteString("===== END OF REPORT =====\n")
	fmt.Fprintf(&b, "Exported at,%s\n", formatDateTime(generatedAt))

	return b.String()
}

// escapeCSV quotes a field that contains a comma, quote, or newline,
// doubling embedded quotes. Applied to every free-text field and never
// to numerics.
func escapeCSV(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.UTC().Format("02/01/2006 15:04")
}

// stringify renders a decoded JSON value the way it appeared in the
// source document. payment_info is free-form jsonb, so the values are
// not always strings.
func stringify(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
