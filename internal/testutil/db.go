// Package testutil opens throwaway databases for repository and use case
// tests.
package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	productdomain "github.com/tair/grocery-pos/internal/product/domain"
	"github.com/tair/grocery-pos/internal/schema"
	userdomain "github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/database"
)

// NewDB returns a migrated in-memory SQLite database. It holds a single
// connection, so concurrent transactions run one after another.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         database.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := schema.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedProduct inserts an active product priced at price
func SeedProduct(t testing.TB, db *gorm.DB, name, barcode, price string) *productdomain.Product {
	t.Helper()
	p := &productdomain.Product{
		Name:     name,
		Barcode:  barcode,
		Price:    decimal.RequireFromString(price),
		Cost:     decimal.Zero,
		Category: "grocery",
		IsActive: true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// SeedInventory inserts a stock row directly, bypassing the ledger
func SeedInventory(t testing.TB, db *gorm.DB, productID uint, quantity, minStock int) *inventorydomain.Inventory {
	t.Helper()
	inv := &inventorydomain.Inventory{
		ProductID:     productID,
		Quantity:      quantity,
		MinStockLevel: minStock,
		Location:      "store",
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return inv
}

// SeedUser inserts an active user with the given role
func SeedUser(t testing.TB, db *gorm.DB, username, role string) *userdomain.User {
	t.Helper()
	u := &userdomain.User{
		Username: username,
		Email:    username + "@store.test",
		Password: "not-a-hash",
		FullName: username,
		Role:     role,
		Status:   userdomain.StatusActive,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// Quantity reads the current stock of an inventory row
func Quantity(t testing.TB, db *gorm.DB, inventoryID uint) int {
	t.Helper()
	var inv inventorydomain.Inventory
	if err := db.First(&inv, inventoryID).Error; err != nil {
		t.Fatalf("load inventory %d: %v", inventoryID, err)
	}
	return inv.Quantity
}

// Ledger returns the ledger rows of an inventory row, oldest first
func Ledger(t testing.TB, db *gorm.DB, inventoryID uint) []inventorydomain.InventoryTransaction {
	t.Helper()
	var txs []inventorydomain.InventoryTransaction
	if err := db.Where("inventory_id = ?", inventoryID).Order("id").Find(&txs).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	return txs
}
