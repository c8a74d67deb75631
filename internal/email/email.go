// Package email produces the subject/text/html triple for order
// notifications. Rendering is a pure mapping from the order snapshot
// and a notification kind; the HTML side goes through html/template so
// customer-supplied text is escaped at render time.
package email

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"ecommerce-edge/internal/model"
)

// Kind is the closed set of notification variants.
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindShipped      Kind = "shipped"
	KindDelivered    Kind = "delivered"
	KindStatusUpdate Kind = "status_update"
)

// ParseKind maps the request's email_type to a Kind. An absent value
// means confirmation; an unrecognized value falls back to the generic
// status update rather than an error.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case "":
		return KindConfirmation
	case KindConfirmation, KindShipped, KindDelivered, KindStatusUpdate:
		return Kind(s)
	default:
		return KindStatusUpdate
	}
}

type Content struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

type Renderer struct {
	baseURL string
}

func NewRenderer(baseURL string) *Renderer {
	return &Renderer{baseURL: strings.TrimRight(baseURL, "/")}
}

type itemView struct {
	Name      string
	SKU       string
	Quantity  int
	UnitPrice string
	LineTotal string
}

type templateData struct {
	Name     string
	OrderRef string
	Status   string
	OrderURL string
	Items    []itemView
	Total    string
}

var htmlTemplates = template.Must(template.New("email").Parse(`
{{define "confirmation"}}<!DOCTYPE html>
<html>
<body>
<h1>Order confirmed!</h1>
<p>Hello <strong>{{.Name}}</strong>,</p>
<p>We received your order <strong>#{{.OrderRef}}</strong>.</p>
<table>
<thead><tr><th>Product</th><th>Qty</th><th>Price</th><th>Total</th></tr></thead>
<tbody>
{{range .Items}}<tr><td>{{.Name}} ({{.SKU}})</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.LineTotal}}</td></tr>
{{end}}</tbody>
<tfoot><tr><td colspan="3">TOTAL:</td><td>{{.Total}}</td></tr></tfoot>
</table>
<p><a href="{{.OrderURL}}">Track your order</a></p>
<p>Thank you for shopping with us!</p>
</body>
</html>
{{end}}
{{define "shipped"}}<p>Hello <strong>{{.Name}}</strong>,</p><p>Your order has been shipped and is on its way!</p><p><a href="{{.OrderURL}}">Track your order</a></p>{{end}}
{{define "delivered"}}<p>Hello <strong>{{.Name}}</strong>,</p><p>Your order has been delivered.</p><p>We hope you enjoy your products.</p>{{end}}
{{define "status_update"}}<p>Hello <strong>{{.Name}}</strong>,</p><p>Order status: <strong>{{.Status}}</strong></p><p><a href="{{.OrderURL}}">Order details</a></p>{{end}}
`))

// Render builds the notification content for the given kind. Both
// renderings of the confirmation enumerate the same item set and the
// same total.
func (r *Renderer) Render(exp model.OrderExport, kind Kind) (Content, error) {
	data := templateData{
		Name:     exp.Customer.FullName,
		OrderRef: shortID(exp.Order.ID),
		Status:   exp.Order.Status,
		OrderURL: fmt.Sprintf("%s/orders/%s", r.baseURL, exp.Order.ID),
		Total:    money(exp.Order.Total),
	}
	for _, item := range exp.Items {
		data.Items = append(data.Items, itemView{
			Name:      item.Product.Name,
			SKU:       item.Product.SKU,
			Quantity:  item.Quantity,
			UnitPrice: money(item.UnitPrice),
			LineTotal: money(item.LineTotal),
		})
	}

	var subject, text string
	switch kind {
	case KindConfirmation:
		subject = fmt.Sprintf("Order #%s confirmed!", data.OrderRef)
		text = confirmationText(data)
	case KindShipped:
		subject = fmt.Sprintf("Your order #%s is on its way!", data.OrderRef)
		text = fmt.Sprintf("Hello %s,\n\nYour order has been shipped and is on its way!\n\nTrack it: %s\n", data.Name, data.OrderURL)
	case KindDelivered:
		subject = fmt.Sprintf("Order #%s delivered!", data.OrderRef)
		text = fmt.Sprintf("Hello %s,\n\nYour order has been delivered.\n\nWe hope you enjoy your products.\n", data.Name)
	default:
		kind = KindStatusUpdate
		subject = fmt.Sprintf("Order #%s status update", data.OrderRef)
		text = fmt.Sprintf("Hello %s,\n\nOrder status: %s\n\nDetails: %s\n", data.Name, data.Status, data.OrderURL)
	}

	var html strings.Builder
	if err := htmlTemplates.ExecuteTemplate(&html, string(kind), data); err != nil {
		return Content{}, err
	}

	return Content{Subject: subject, Text: text, HTML: html.String()}, nil
}

func confirmationText(data templateData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", data.Name)
	fmt.Fprintf(&b, "We received your order #%s.\n\n", data.OrderRef)
	b.WriteString("ORDER SUMMARY:\n")
	b.WriteString("===============\n")
	for _, item := range data.Items {
		fmt.Fprintf(&b, "\n%s (%s)\n", item.Name, item.SKU)
		fmt.Fprintf(&b, "  Quantity: %d\n", item.Quantity)
		fmt.Fprintf(&b, "  Price: %s\n", item.UnitPrice)
		fmt.Fprintf(&b, "  Subtotal: %s\n", item.LineTotal)
	}
	b.WriteString("\n===============\n")
	fmt.Fprintf(&b, "TOTAL: %s\n\n", data.Total)
	fmt.Fprintf(&b, "Track your order at: %s\n\n", data.OrderURL)
	b.WriteString("Thank you for shopping with us!\n")

	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
