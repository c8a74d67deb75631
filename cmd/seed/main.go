// Command seed inserts demo rows: one customer profile, three
// products, and one placed order with a single line item.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ecommerce-edge/internal/config"
	"ecommerce-edge/internal/model"
	"ecommerce-edge/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.GetConfig()
	if cfg.Store.DBDsn == "" {
		return errors.New("DATABASE_DSN is required")
	}

	store, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	fmt.Println("Starting database seed...")

	fmt.Println("Creating profile...")
	profileID, err := store.ProfilePost(ctx, model.Profile{
		FullName: "Maria Silva",
		Email:    "maria@email.com",
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
	if err != nil {
		return fmt.Errorf("profile creation: %w", err)
	}

	products := []model.Product{
		{
			SKU:         "NB-001",
			Name:        "Notebook Dell",
			Description: "Intel i7, 16GB RAM, 512GB SSD",
			Price:       4299.90,
			Stock:       15,
			Category:    "Electronics",
		},
		{
			SKU:         "SM-001",
			Name:        "Samsung Galaxy S23",
			Description: "5G, 128GB",
			Price:       3599.00,
			Stock:       25,
			Category:    "Electronics",
		},
		{
			SKU:         "CAM-001",
			Name:        "Premium T-Shirt",
			Description: "100% Cotton",
			Price:       89.90,
			Stock:       100,
			Category:    "Fashion",
		},
	}

	fmt.Println("Creating products...")
	productIDs := make([]string, 0, len(products))
	for _, product := range products {
		id, err := store.ProductPost(ctx, product)
		if err != nil {
			return fmt.Errorf("product creation (%s): %w", product.SKU, err)
		}
		productIDs = append(productIDs, id)
	}

	fmt.Println("Creating order...")
	notebook := products[0]
	orderID, err := store.OrderPost(ctx, model.Order{
		Status:       model.OrderStatusPlaced,
		Subtotal:     notebook.Price,
		ShippingCost: 25.00,
		Total:        notebook.Price + 25.00,
		ShippingAddress: model.Address{
			Street:  "Rua A",
			Number:  "123",
			City:    "São Paulo",
			State:   "SP",
			Zipcode: "01234-567",
		},
	}, profileID)
	if err != nil {
		return fmt.Errorf("order creation: %w", err)
	}

	fmt.Println("Creating order item...")
	err = store.OrderItemPost(ctx, orderID, productIDs[0], model.OrderItem{
		Product: model.ProductSnapshot{
			SKU:      notebook.SKU,
			Name:     notebook.Name,
			Category: notebook.Category,
		},
		Quantity:  1,
		UnitPrice: notebook.Price,
		LineTotal: notebook.Price,
	})
	if err != nil {
		return fmt.Errorf("order item creation: %w", err)
	}

	fmt.Println("\nSeed completed successfully!")
	fmt.Println("\nSummary:")
	fmt.Println("  - 1 profile")
	fmt.Printf("  - %d products\n", len(products))
	fmt.Println("  - 1 order")
	fmt.Println("  - 1 item")
	fmt.Printf("\nDemo order id: %s\n", orderID)

	return nil
}
