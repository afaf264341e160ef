package repository

import (
	"testing"

	"github.com/boutique-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate product failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createTestProduct(t *testing.T, repo *GormProductRepository, name string, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: "test product",
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Stock:       stock,
		IsActive:    active,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !active {
		product.IsActive = false
		if err := repo.Update(product); err != nil {
			t.Fatalf("deactivate product failed: %v", err)
		}
	}
	return product
}

func TestDecrementStockLifecycle(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "decrement-lifecycle", 5, true)

	affected, err := repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement affected want 1 got %d", affected)
	}

	got, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("stock want 2 got %d", got.Stock)
	}

	// 剩余 2，扣减到 0 允许
	affected, err = repo.DecrementStock(product.ID, 2)
	if err != nil {
		t.Fatalf("decrement to zero failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement to zero affected want 1 got %d", affected)
	}

	got, err = repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("stock want 0 got %d", got.Stock)
	}
}

func TestDecrementStockInsufficient(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "decrement-insufficient", 2, true)

	affected, err := repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("insufficient decrement affected want 0 got %d", affected)
	}

	got, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("stock must be untouched, want 2 got %d", got.Stock)
	}
}

func TestDecrementStockInvalidParams(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	if _, err := repo.DecrementStock(0, 1); err == nil {
		t.Fatal("expected error for zero product id")
	}
	if _, err := repo.DecrementStock(1, 0); err == nil {
		t.Fatal("expected error for non-positive quantity")
	}
}

func TestAdjustStock(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "adjust-stock", 4, true)

	affected, err := repo.AdjustStock(product.ID, 6)
	if err != nil {
		t.Fatalf("adjust up failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("adjust up affected want 1 got %d", affected)
	}

	got, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 10 {
		t.Fatalf("stock want 10 got %d", got.Stock)
	}

	// 减到负数被拒绝
	affected, err = repo.AdjustStock(product.ID, -11)
	if err != nil {
		t.Fatalf("adjust down failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("negative adjust affected want 0 got %d", affected)
	}

	got, err = repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 10 {
		t.Fatalf("stock must be untouched, want 10 got %d", got.Stock)
	}
}

func TestListActiveExcludesInactive(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	active := createTestProduct(t, repo, "list-active-visible", 3, true)
	inactive := createTestProduct(t, repo, "list-active-hidden", 3, false)

	products, err := repo.ListActive()
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	foundActive := false
	for _, p := range products {
		if p.ID == inactive.ID {
			t.Fatalf("inactive product %d must not be listed", inactive.ID)
		}
		if p.ID == active.ID {
			foundActive = true
		}
	}
	if !foundActive {
		t.Fatalf("active product %d missing from listing", active.ID)
	}
}
