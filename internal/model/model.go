package model

import "time"

// Order export projection

type OrderExport struct {
	Order    Order
	Customer Customer
	Items    []OrderItem
}

type Order struct {
	ID              string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Subtotal        float64
	ShippingCost    float64
	Discount        float64
	Total           float64
	PaymentMethod   string
	PaymentInfo     map[string]any
	Notes           string
	ShippingAddress Address
}

const (
	OrderStatusPlaced    = "placed"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Customer struct {
	ID       string
	FullName string
	Email    string
	CPF      string
	Phone    string
}

type Address struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	Zipcode      string
}

type OrderItem struct {
	Product   ProductSnapshot
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

// ProductSnapshot is the product state captured at purchase time.
// Fields may be empty when the snapshot predates the field.
type ProductSnapshot struct {
	SKU      string
	Name     string
	Category string
}

// Catalog rows (seeding)

type Profile struct {
	ID       string
	AuthUID  string
	FullName string
	Email    string
	CPF      string
	Phone    string
	Address  Address
}

type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
}

// Audit trail

type OrderEvent struct {
	OrderID     string
	EventType   string
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time
}

const (
	EventTypeExportCSV = "export_csv"
	EventTypeEmailSent = "email_sent"
)
