package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"retailcore/internal/config"
	"retailcore/internal/customer"
	customerStore "retailcore/internal/customer/store"
	"retailcore/internal/database"
	retailHttp "retailcore/internal/http"
	customersHandler "retailcore/internal/http/customers"
	productsHandler "retailcore/internal/http/products"
	purchasesHandler "retailcore/internal/http/purchases"
	returnsHandler "retailcore/internal/http/returns"
	salesHandler "retailcore/internal/http/sales"
	"retailcore/internal/inventory"
	inventoryStore "retailcore/internal/inventory/store"
	"retailcore/internal/purchase"
	purchaseStore "retailcore/internal/purchase/store"
	"retailcore/internal/returns"
	returnsStore "retailcore/internal/returns/store"
	"retailcore/internal/sale"
	saleStore "retailcore/internal/sale/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		saleService      = sale.NewService(saleStore.New(db))
		returnsService   = returns.NewService(returnsStore.New(db))
		purchaseService  = purchase.NewService(purchaseStore.New(db))
		inventoryService = inventory.NewService(inventoryStore.New(db))
		customerService  = customer.NewService(customerStore.New(db))
	)

	var (
		salesH     = salesHandler.NewHandler(saleService)
		returnsH   = returnsHandler.NewHandler(returnsService)
		purchasesH = purchasesHandler.NewHandler(purchaseService)
		productsH  = productsHandler.NewHandler(inventoryService)
		customersH = customersHandler.NewHandler(customerService, saleService, returnsService)
	)

	router := retailHttp.New(salesH, returnsH, purchasesH, productsH, customersH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
