package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *repository.GormProductRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate product failed: %v", err)
	}
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewMemoryCartRepository(time.Hour)
	return NewCartService(cartRepo, productRepo), productRepo
}

func createCartTestProduct(t *testing.T, repo *repository.GormProductRepository, name string, price int64, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: "cart test product",
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
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

func TestCartAddMergesExistingLine(t *testing.T) {
	svc, productRepo := setupCartServiceTest(t)
	product := createCartTestProduct(t, productRepo, "merge-line", 7, 10, true)
	ctx := context.Background()

	if _, err := svc.AddProduct(ctx, "session-merge", product.ID, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	detail, err := svc.AddProduct(ctx, "session-merge", product.ID, 3)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(detail.Lines) != 1 {
		t.Fatalf("lines want 1 got %d", len(detail.Lines))
	}
	if detail.Lines[0].Quantity != 5 {
		t.Fatalf("merged quantity want 5 got %d", detail.Lines[0].Quantity)
	}
	if detail.TotalQuantity != 5 {
		t.Fatalf("total quantity want 5 got %d", detail.TotalQuantity)
	}
}

func TestCartAddDefaultsQuantityToOne(t *testing.T) {
	svc, productRepo := setupCartServiceTest(t)
	product := createCartTestProduct(t, productRepo, "default-qty", 3, 10, true)

	detail, err := svc.AddProduct(context.Background(), "session-default-qty", product.ID, 0)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(detail.Lines) != 1 || detail.Lines[0].Quantity != 1 {
		t.Fatalf("expected a single line with quantity 1, got %+v", detail.Lines)
	}
}

func TestCartAddInactiveProduct(t *testing.T) {
	svc, productRepo := setupCartServiceTest(t)
	product := createCartTestProduct(t, productRepo, "inactive-product", 5, 10, false)

	_, err := svc.AddProduct(context.Background(), "session-inactive", product.ID, 1)
	if !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc, _ := setupCartServiceTest(t)

	_, err := svc.AddProduct(context.Background(), "session-unknown", 99999999, 1)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestCartAddInsufficientStock(t *testing.T) {
	svc, productRepo := setupCartServiceTest(t)
	product := createCartTestProduct(t, productRepo, "insufficient-add", 5, 4, true)
	ctx := context.Background()

	if _, err := svc.AddProduct(ctx, "session-insufficient", product.ID, 3); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	// 合并后 5 > 库存 4
	_, err := svc.AddProduct(ctx, "session-insufficient", product.ID, 2)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("want *InsufficientStockError got %T", err)
	}
	if stockErr.Requested != 5 || stockErr.Available != 4 {
		t.Fatalf("want requested 5 available 4 got %+v", stockErr)
	}

	// 购物车保持拒绝前的状态
	detail, err := svc.Get(ctx, "session-insufficient")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(detail.Lines) != 1 || detail.Lines[0].Quantity != 3 {
		t.Fatalf("cart must keep quantity 3, got %+v", detail.Lines)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	svc, productRepo := setupCartServiceTest(t)
	product := createCartTestProduct(t, productRepo, "update-qty", 5, 10, true)
	ctx := context.Background()

	if _, err := svc.AddProduct(ctx, "session-update", product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	detail, err := svc.UpdateQuantity(ctx, "session-update", product.ID, 6)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if detail.Lines[0].Quantity != 6 {
		t.Fatalf("quantity want 6 got %d", detail.Lines[0].Quantity)
	}

	if _, err := svc.UpdateQuantity(ctx, "session-update", product.ID, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity got %v", err)
	}

	if _, err := svc.UpdateQuantity(ctx, "session-update", product.ID, 11); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	// 数量 0 移除该行
	detail, err = svc.UpdateQuantity(ctx, "session-update", product.ID, 0)
	if err != nil {
		t.Fatalf("remove via zero failed: %v", err)
	}
	if len(detail.Lines) != 0 {
		t.Fatalf("lines want 0 got %d", len(detail.Lines))
	}
}

func TestCartUpdateQuantityMissingLine(t *testing.T) {
	svc, productRepo := setupCartServiceTest(t)
	product := createCartTestProduct(t, productRepo, "missing-line", 5, 10, true)

	_, err := svc.UpdateQuantity(context.Background(), "session-missing-line", product.ID, 2)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestCartRemoveAbsentLineIsNoOp(t *testing.T) {
	svc, productRepo := setupCartServiceTest(t)
	product := createCartTestProduct(t, productRepo, "remove-kept", 5, 10, true)
	ctx := context.Background()

	if _, err := svc.AddProduct(ctx, "session-remove-absent", product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	detail, err := svc.RemoveProduct(ctx, "session-remove-absent", product.ID+9999)
	if err != nil {
		t.Fatalf("removing an absent line must not fail, got %v", err)
	}
	if len(detail.Lines) != 1 || detail.Lines[0].Quantity != 2 {
		t.Fatalf("existing lines must be untouched, got %+v", detail.Lines)
	}

	detail, err = svc.RemoveProduct(ctx, "session-remove-absent", product.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(detail.Lines) != 0 {
		t.Fatalf("cart must be empty after remove, got %d lines", len(detail.Lines))
	}
}

func TestCartGetFlagsUnavailableLines(t *testing.T) {
	svc, productRepo := setupCartServiceTest(t)
	kept := createCartTestProduct(t, productRepo, "flag-kept", 4, 10, true)
	pulled := createCartTestProduct(t, productRepo, "flag-pulled", 6, 10, true)
	ctx := context.Background()

	if _, err := svc.AddProduct(ctx, "session-flag", kept.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.AddProduct(ctx, "session-flag", pulled.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// 商品在加入购物车之后下架
	pulled.IsActive = false
	if err := productRepo.Update(pulled); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	detail, err := svc.Get(ctx, "session-flag")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(detail.Lines) != 2 {
		t.Fatalf("lines want 2 got %d", len(detail.Lines))
	}
	for _, line := range detail.Lines {
		switch line.ProductID {
		case kept.ID:
			if !line.Available {
				t.Fatal("active product line must be available")
			}
		case pulled.ID:
			if line.Available {
				t.Fatal("deactivated product line must be flagged unavailable")
			}
		default:
			t.Fatalf("unexpected line for product %d", line.ProductID)
		}
	}
	if detail.TotalQuantity != 2 || detail.TotalAmount.String() != "8.00" {
		t.Fatalf("totals must cover available lines only, got qty %d amount %s",
			detail.TotalQuantity, detail.TotalAmount.String())
	}
}

func TestCartClear(t *testing.T) {
	svc, productRepo := setupCartServiceTest(t)
	product := createCartTestProduct(t, productRepo, "clear-cart", 5, 10, true)
	ctx := context.Background()

	if _, err := svc.AddProduct(ctx, "session-clear", product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.Clear(ctx, "session-clear"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	detail, err := svc.Get(ctx, "session-clear")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(detail.Lines) != 0 {
		t.Fatalf("cart must be empty after clear, got %d lines", len(detail.Lines))
	}
}
