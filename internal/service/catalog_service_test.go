package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/boutique-next/internal/config"
	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCatalogServiceTest(t *testing.T) (*CatalogService, string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate product failed: %v", err)
	}
	uploadDir := t.TempDir()
	cfg := &config.Config{Upload: config.UploadConfig{Dir: uploadDir}}
	svc := NewCatalogService(repository.NewProductRepository(db), NewUploadService(cfg))
	return svc, uploadDir
}

func catalogInput(name string, price int64, stock int, active bool) ProductInput {
	return ProductInput{
		Name:     name,
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Stock:    stock,
		IsActive: active,
	}
}

func TestCatalogCreateValidation(t *testing.T) {
	svc, _ := setupCatalogServiceTest(t)

	if _, err := svc.Create(catalogInput("   ", 5, 1, true)); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name must fail validation, got %v", err)
	}
	input := catalogInput("catalog-neg-price", 5, 1, true)
	input.Price = models.NewMoneyFromDecimal(decimal.NewFromInt(-1))
	if _, err := svc.Create(input); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("negative price must fail, got %v", err)
	}
	if _, err := svc.Create(ProductInput{Name: "catalog-no-price", Stock: 1, IsActive: true}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("missing price must fail, got %v", err)
	}
	if _, err := svc.Create(catalogInput("catalog-neg-stock", 5, -1, true)); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative stock must fail, got %v", err)
	}

	product, err := svc.Create(catalogInput("  catalog-trim  ", 5, 3, true))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Name != "catalog-trim" {
		t.Fatalf("name must be trimmed, got %q", product.Name)
	}
}

func TestCatalogCreateInactiveStaysInactive(t *testing.T) {
	svc, _ := setupCatalogServiceTest(t)

	product, err := svc.Create(catalogInput("catalog-inactive-create", 9, 2, false))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	loaded, err := svc.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.IsActive {
		t.Fatal("product created inactive must stay inactive")
	}
}

func TestCatalogUpdateKeepsImageWhenOmitted(t *testing.T) {
	svc, _ := setupCatalogServiceTest(t)

	input := catalogInput("catalog-update-image", 9, 2, true)
	input.Image = "/uploads/product/2026/08/old.png"
	product, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(product.ID, catalogInput("catalog-update-image", 12, 4, true))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Image != input.Image {
		t.Fatalf("image must be kept when update omits it, got %q", updated.Image)
	}
	if updated.Price.String() != "12.00" || updated.Stock != 4 {
		t.Fatalf("update not applied, price %s stock %d", updated.Price.String(), updated.Stock)
	}
}

func TestCatalogUpdateMissingProduct(t *testing.T) {
	svc, _ := setupCatalogServiceTest(t)

	if _, err := svc.Update(987654, catalogInput("catalog-ghost", 5, 1, true)); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("update of missing product must fail, got %v", err)
	}
}

func TestCatalogDeleteRemovesImageFile(t *testing.T) {
	svc, uploadDir := setupCatalogServiceTest(t)

	imagePath := filepath.Join(uploadDir, "product", "2026", "08", "obsolete.png")
	if err := os.MkdirAll(filepath.Dir(imagePath), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(imagePath, []byte("png"), 0644); err != nil {
		t.Fatalf("write image failed: %v", err)
	}

	input := catalogInput("catalog-delete-image", 6, 1, true)
	input.Image = "/uploads/product/2026/08/obsolete.png"
	product, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByID(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("product must be gone, got %v", err)
	}
	if _, err := os.Stat(imagePath); !os.IsNotExist(err) {
		t.Fatalf("image file must be removed, stat err %v", err)
	}

	if err := svc.Delete(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("double delete must report not found, got %v", err)
	}
}

func TestCatalogDeleteToleratesMissingImage(t *testing.T) {
	svc, _ := setupCatalogServiceTest(t)

	input := catalogInput("catalog-delete-no-file", 6, 1, true)
	input.Image = "/uploads/product/2026/08/never-written.png"
	product, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(product.ID); err != nil {
		t.Fatalf("delete must tolerate an absent image file, got %v", err)
	}
}

func TestCatalogSetActive(t *testing.T) {
	svc, _ := setupCatalogServiceTest(t)

	product, err := svc.Create(catalogInput("catalog-toggle", 6, 1, true))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.SetActive(product.ID, false); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	loaded, err := svc.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.IsActive {
		t.Fatal("product must be inactive after SetActive(false)")
	}
}
