package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"ecommerce-edge/internal/model"
	"ecommerce-edge/internal/store/config"
)

type Store interface {
	OrderExportGet(ctx context.Context, orderID string) (model.OrderExport, error)
	OrderEventPost(ctx context.Context, event model.OrderEvent) error
	ProfilePost(ctx context.Context, profile model.Profile) (string, error)
	ProductPost(ctx context.Context, product model.Product) (string, error)
	OrderPost(ctx context.Context, order model.Order, customerID string) (string, error)
	OrderItemPost(ctx context.Context, orderID string, productID string, item model.OrderItem) error
	TableProbe(ctx context.Context, table string) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	ErrNoRows        = errors.New("no rows")
	ErrAlreadyExists = errors.New("already exists")
)

type store struct {
	database *sql.DB
}

func NewStore(cfg config.Config) (Store, error) {
	db, err := sql.Open("pgx", cfg.DBDsn)
	if err != nil {
		return nil, err
	}

	// Customer profiles. Address is a JSON snapshot, same shape as the
	// order's shipping address
	_, err = db.Exec(
		"CREATE TABLE IF NOT EXISTS profiles (" +
			" id UUID PRIMARY KEY," +
			" auth_uid UUID UNIQUE," +
			" full_name VARCHAR (100) NOT NULL," +
			" email VARCHAR (100) UNIQUE NOT NULL," +
			" cpf VARCHAR (14)," +
			" phone VARCHAR (20)," +
			" address JSONB" +
			" );")
	if err != nil {
		return nil, err
	}

	// Product catalog
	_, err = db.Exec(
		"CREATE TABLE IF NOT EXISTS products (" +
			" id UUID PRIMARY KEY," +
			" sku VARCHAR (20) UNIQUE NOT NULL," +
			" name VARCHAR (200) NOT NULL," +
			" description TEXT," +
			" price NUMERIC (10,2) NOT NULL," +
			" stock INTEGER NOT NULL DEFAULT 0," +
			" category VARCHAR (50)" +
			" );")
	if err != nil {
		return nil, err
	}

	// Order headers. One row per order, status changes in place
	_, err = db.Exec(
		"CREATE TABLE IF NOT EXISTS orders (" +
			" id UUID PRIMARY KEY," +
			" customer_id UUID NOT NULL REFERENCES profiles (id)," +
			" status VARCHAR (20) NOT NULL," +
			" subtotal NUMERIC (10,2) NOT NULL DEFAULT 0," +
			" shipping_cost NUMERIC (10,2) NOT NULL DEFAULT 0," +
			" discount NUMERIC (10,2) NOT NULL DEFAULT 0," +
			" total NUMERIC (10,2) NOT NULL DEFAULT 0," +
			" payment_method VARCHAR (30)," +
			" payment_info JSONB," +
			" notes TEXT," +
			" shipping_address JSONB," +
			" created_at TIMESTAMP NOT NULL," +
			" updated_at TIMESTAMP NOT NULL" +
			" );")
	if err != nil {
		return nil, err
	}

	// Line items. The serial id preserves insertion order, which is the
	// order exports render in
	_, err = db.Exec(
		"CREATE TABLE IF NOT EXISTS order_items (" +
			" id SERIAL PRIMARY KEY," +
			" order_id UUID NOT NULL REFERENCES orders (id)," +
			" product_id UUID REFERENCES products (id)," +
			" product_snapshot JSONB," +
			" quantity INTEGER NOT NULL," +
			" unit_price NUMERIC (10,2) NOT NULL," +
			" line_total NUMERIC (10,2) NOT NULL" +
			" );")
	if err != nil {
		return nil, err
	}

	// Audit trail. Append-only journal of exports and sent emails
	_, err = db.Exec(
		"CREATE TABLE IF NOT EXISTS order_events (" +
			" id SERIAL PRIMARY KEY," +
			" order_id UUID NOT NULL REFERENCES orders (id)," +
			" event_type VARCHAR (30) NOT NULL," +
			" description TEXT," +
			" metadata JSONB," +
			" created_at TIMESTAMP NOT NULL" +
			" );")
	if err != nil {
		return nil, err
	}

	return &store{database: db}, nil
}

// JSONB column shapes

type addressJSON struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zipcode      string `json:"zipcode"`
}

type productSnapshotJSON struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

func (store *store) OrderExportGet(ctx context.Context, orderID string) (model.OrderExport, error) {
	var exp model.OrderExport

	// Order header with the customer snapshot
	row := store.database.QueryRowContext(ctx,
		"SELECT o.id, o.status, o.created_at, o.updated_at,"+
			" o.subtotal, o.shipping_cost, o.discount, o.total,"+
			" o.payment_method, o.payment_info, o.notes, o.shipping_address,"+
			" p.id, p.full_name, p.email, p.cpf, p.phone"+
			" FROM orders o"+
			" JOIN profiles p ON p.id = o.customer_id"+
			" WHERE o.id = $1",
		orderID)

	var (
		paymentMethod sql.NullString
		paymentInfo   []byte
		notes         sql.NullString
		shippingAddr  []byte
		cpf           sql.NullString
		phone         sql.NullString
	)
	err := row.Scan(&exp.Order.ID,
		&exp.Order.Status,
		&exp.Order.CreatedAt,
		&exp.Order.UpdatedAt,
		&exp.Order.Subtotal,
		&exp.Order.ShippingCost,
		&exp.Order.Discount,
		&exp.Order.Total,
		&paymentMethod,
		&paymentInfo,
		&notes,
		&shippingAddr,
		&exp.Customer.ID,
		&exp.Customer.FullName,
		&exp.Customer.Email,
		&cpf,
		&phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.OrderExport{}, ErrNoRows
		}
		return model.OrderExport{}, err
	}

	exp.Order.PaymentMethod = paymentMethod.String
	exp.Order.Notes = notes.String
	exp.Customer.CPF = cpf.String
	exp.Customer.Phone = phone.String
	if len(paymentInfo) > 0 {
		if err := json.Unmarshal(paymentInfo, &exp.Order.PaymentInfo); err != nil {
			return model.OrderExport{}, err
		}
	}
	if len(shippingAddr) > 0 {
		var addr addressJSON
		if err := json.Unmarshal(shippingAddr, &addr); err != nil {
			return model.OrderExport{}, err
		}
		exp.Order.ShippingAddress = model.Address(addr)
	}

	// Line items in insertion order
	rows, err := store.database.QueryContext(ctx,
		"SELECT product_snapshot, quantity, unit_price, line_total"+
			" FROM order_items"+
			" WHERE order_id = $1"+
			" ORDER BY id",
		orderID)
	if err != nil {
		return model.OrderExport{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var item model.OrderItem
		var snapshot []byte
		err := rows.Scan(&snapshot,
			&item.Quantity,
			&item.UnitPrice,
			&item.LineTotal)
		if err != nil {
			return model.OrderExport{}, err
		}
		if len(snapshot) > 0 {
			var snap productSnapshotJSON
			if err := json.Unmarshal(snapshot, &snap); err != nil {
				return model.OrderExport{}, err
			}
			item.Product = model.ProductSnapshot(snap)
		}
		exp.Items = append(exp.Items, item)
	}
	if err := rows.Err(); err != nil {
		return model.OrderExport{}, err
	}

	return exp, nil
}

func (store *store) OrderEventPost(ctx context.Context, event model.OrderEvent) error {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return err
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = store.database.ExecContext(ctx,
		"INSERT INTO order_events (order_id, event_type, description, metadata, created_at)"+
			" VALUES ($1, $2, $3, $4, $5)",
		event.OrderID,
		event.EventType,
		event.Description,
		metadata,
		createdAt)
	return err
}

func (store *store) ProfilePost(ctx context.Context, profile model.Profile) (string, error) {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.AuthUID == "" {
		profile.AuthUID = uuid.NewString()
	}
	address, err := json.Marshal(addressJSON(profile.Address))
	if err != nil {
		return "", err
	}

	_, err = store.database.ExecContext(ctx,
		"INSERT INTO profiles (id, auth_uid, full_name, email, cpf, phone, address)"+
			" VALUES ($1, $2, $3, $4, $5, $6, $7)",
		profile.ID,
		profile.AuthUID,
		profile.FullName,
		profile.Email,
		profile.CPF,
		profile.Phone,
		address)
	if err != nil {
		return "", mapUniqueViolation(err)
	}
	return profile.ID, nil
}

func (store *store) ProductPost(ctx context.Context, product model.Product) (string, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	_, err := store.database.ExecContext(ctx,
		"INSERT INTO products (id, sku, name, description, price, stock, category)"+
			" VALUES ($1, $2, $3, $4, $5, $6, $7)",
		product.ID,
		product.SKU,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.Category)
	if err != nil {
		return "", mapUniqueViolation(err)
	}
	return product.ID, nil
}

func (store *store) OrderPost(ctx context.Context, order model.Order, customerID string) (string, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	address, err := json.Marshal(addressJSON(order.ShippingAddress))
	if err != nil {
		return "", err
	}
	paymentInfo, err := json.Marshal(order.PaymentInfo)
	if err != nil {
		return "", err
	}

	now := time.Now()
	_, err = store.database.ExecContext(ctx,
		"INSERT INTO orders (id, customer_id, status, subtotal, shipping_cost, discount, total,"+
			" payment_method, payment_info, notes, shipping_address, created_at, updated_at)"+
			" VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)",
		order.ID,
		customerID,
		order.Status,
		order.Subtotal,
		order.ShippingCost,
		order.Discount,
		order.Total,
		order.PaymentMethod,
		paymentInfo,
		order.Notes,
		address,
		now,
		now)
	if err != nil {
		return "", mapUniqueViolation(err)
	}
	return order.ID, nil
}

func (store *store) OrderItemPost(ctx context.Context, orderID string, productID string, item model.OrderItem) error {
	snapshot, err := json.Marshal(productSnapshotJSON(item.Product))
	if err != nil {
		return err
	}

	_, err = store.database.ExecContext(ctx,
		"INSERT INTO order_items (order_id, product_id, product_snapshot, quantity, unit_price, line_total)"+
			" VALUES ($1, $2, $3, $4, $5, $6)",
		orderID,
		productID,
		snapshot,
		item.Quantity,
		item.UnitPrice,
		item.LineTotal)
	return err
}

// TableProbe checks that a table exists and is selectable. Table names
// come from the validator's fixed list, never from request input.
func (store *store) TableProbe(ctx context.Context, table string) error {
	_, err := store.database.ExecContext(ctx,
		fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", table))
	return err
}

func (store *store) Ping(ctx context.Context) error {
	return store.database.PingContext(ctx)
}

func (store *store) Close() error {
	return store.database.Close()
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
	}
	return err
}
