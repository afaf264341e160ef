package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boutique-next/internal/constants"
	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCheckoutServiceTest(t *testing.T) (*CheckoutService, repository.CartRepository, *repository.GormProductRepository, *repository.GormOrderRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewMemoryCartRepository(time.Hour)
	svc := NewCheckoutService(cartRepo, productRepo, orderRepo, nil)
	return svc, cartRepo, productRepo, orderRepo
}

func createCheckoutProduct(t *testing.T, repo *repository.GormProductRepository, name string, price int64, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: "checkout test product",
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

func saveCheckoutCart(t *testing.T, cartRepo repository.CartRepository, sessionID string, lines []models.CartLine) {
	t.Helper()
	if err := cartRepo.Save(context.Background(), &models.Cart{SessionID: sessionID, Lines: lines}); err != nil {
		t.Fatalf("save cart failed: %v", err)
	}
}

func TestCheckoutCreatesOrderPerCartLine(t *testing.T) {
	svc, cartRepo, productRepo, _ := setupCheckoutServiceTest(t)
	widget := createCheckoutProduct(t, productRepo, "checkout-widget", 10, 5, true)
	caseProduct := createCheckoutProduct(t, productRepo, "checkout-case", 4, 8, true)

	saveCheckoutCart(t, cartRepo, "session-checkout-ok", []models.CartLine{
		{ProductID: widget.ID, Name: widget.Name, UnitPrice: widget.Price, Quantity: 2},
		{ProductID: caseProduct.ID, Name: caseProduct.Name, UnitPrice: caseProduct.Price, Quantity: 3},
	})

	result, err := svc.Checkout(context.Background(), CheckoutInput{SessionID: "session-checkout-ok"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if len(result.Orders) != 2 {
		t.Fatalf("orders want 2 got %d", len(result.Orders))
	}
	if result.CustomerName != constants.AnonymousCustomer {
		t.Fatalf("customer want %q got %q", constants.AnonymousCustomer, result.CustomerName)
	}
	if result.TotalAmount.String() != "32.00" {
		t.Fatalf("total want 32.00 got %s", result.TotalAmount.String())
	}
	for _, order := range result.Orders {
		if order.OrderNo == "" {
			t.Fatal("order number must be assigned")
		}
		if order.UserID != nil {
			t.Fatal("anonymous order must have nil user id")
		}
	}

	// 库存已扣减
	got, err := productRepo.GetByID(widget.ID)
	if err != nil {
		t.Fatalf("get widget failed: %v", err)
	}
	if got.Stock != 3 {
		t.Fatalf("widget stock want 3 got %d", got.Stock)
	}
	got, err = productRepo.GetByID(caseProduct.ID)
	if err != nil {
		t.Fatalf("get case failed: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("case stock want 5 got %d", got.Stock)
	}

	// 购物车已清空
	cart, err := cartRepo.Get(context.Background(), "session-checkout-ok")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("cart must be cleared after checkout")
	}
}

func TestCheckoutFailedLineRollsBackEverything(t *testing.T) {
	svc, cartRepo, productRepo, orderRepo := setupCheckoutServiceTest(t)
	plenty := createCheckoutProduct(t, productRepo, "rollback-plenty", 10, 5, true)
	scarce := createCheckoutProduct(t, productRepo, "rollback-scarce", 6, 1, true)

	saveCheckoutCart(t, cartRepo, "session-rollback", []models.CartLine{
		{ProductID: plenty.ID, Name: plenty.Name, UnitPrice: plenty.Price, Quantity: 2},
		{ProductID: scarce.ID, Name: scarce.Name, UnitPrice: scarce.Price, Quantity: 3},
	})

	_, err := svc.Checkout(context.Background(), CheckoutInput{SessionID: "session-rollback"})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	// 第一行的扣减也必须回滚
	got, err := productRepo.GetByID(plenty.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("plenty stock must be restored to 5, got %d", got.Stock)
	}
	got, err = productRepo.GetByID(scarce.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 1 {
		t.Fatalf("scarce stock must stay 1, got %d", got.Stock)
	}

	// 不产生任何订单
	orders, _, err := orderRepo.List(repository.OrderListFilter{Page: 1, PageSize: 50, ProductID: plenty.ID})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("no orders expected after rollback, got %d", len(orders))
	}

	// 购物车保留，便于用户修正后重试
	cart, err := cartRepo.Get(context.Background(), "session-rollback")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart.IsEmpty() {
		t.Fatal("cart must be kept after failed checkout")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, _, _ := setupCheckoutServiceTest(t)

	_, err := svc.Checkout(context.Background(), CheckoutInput{SessionID: "session-empty"})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart got %v", err)
	}
}

func TestCheckoutInactiveProduct(t *testing.T) {
	svc, cartRepo, productRepo, _ := setupCheckoutServiceTest(t)
	product := createCheckoutProduct(t, productRepo, "checkout-inactive", 9, 5, false)

	saveCheckoutCart(t, cartRepo, "session-checkout-inactive", []models.CartLine{
		{ProductID: product.ID, Name: product.Name, UnitPrice: product.Price, Quantity: 1},
	})

	_, err := svc.Checkout(context.Background(), CheckoutInput{SessionID: "session-checkout-inactive"})
	if !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}

	got, err := productRepo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("stock must stay 5, got %d", got.Stock)
	}
}

func TestCheckoutLoggedInCustomerSnapshot(t *testing.T) {
	svc, cartRepo, productRepo, _ := setupCheckoutServiceTest(t)
	product := createCheckoutProduct(t, productRepo, "checkout-named", 8, 5, true)

	saveCheckoutCart(t, cartRepo, "session-checkout-named", []models.CartLine{
		{ProductID: product.ID, Name: product.Name, UnitPrice: product.Price, Quantity: 1},
	})

	user := &models.User{FirstName: "Marie", LastName: "Curie", Email: "marie@example.com"}
	user.ID = 7301

	result, err := svc.Checkout(context.Background(), CheckoutInput{SessionID: "session-checkout-named", User: user})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.CustomerName != "Marie Curie" {
		t.Fatalf("customer want %q got %q", "Marie Curie", result.CustomerName)
	}
	if len(result.Orders) != 1 {
		t.Fatalf("orders want 1 got %d", len(result.Orders))
	}
	if result.Orders[0].UserID == nil || *result.Orders[0].UserID != user.ID {
		t.Fatalf("order must carry user id %d", user.ID)
	}
}

func TestOrderSnapshotSurvivesProductMutation(t *testing.T) {
	svc, cartRepo, productRepo, orderRepo := setupCheckoutServiceTest(t)
	product := createCheckoutProduct(t, productRepo, "snapshot-source", 9, 10, true)

	saveCheckoutCart(t, cartRepo, "session-snapshot", []models.CartLine{
		{ProductID: product.ID, Name: product.Name, UnitPrice: product.Price, Quantity: 1},
	})
	result, err := svc.Checkout(context.Background(), CheckoutInput{SessionID: "session-snapshot"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	orderID := result.Orders[0].ID

	product.Name = "snapshot-renamed"
	product.Price = models.NewMoneyFromDecimal(decimal.NewFromInt(99))
	if err := productRepo.Update(product); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	order, err := orderRepo.GetByID(orderID)
	if err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if order.ProductName != "snapshot-source" {
		t.Fatalf("product name snapshot must not change, got %q", order.ProductName)
	}
	if order.UnitPrice.String() != "9.00" {
		t.Fatalf("unit price snapshot must not change, got %s", order.UnitPrice.String())
	}
}

func TestCheckoutVanishedProductFailsWholeCheckout(t *testing.T) {
	svc, cartRepo, productRepo, orderRepo := setupCheckoutServiceTest(t)
	keeper := createCheckoutProduct(t, productRepo, "vanish-keeper", 8, 5, true)
	doomed := createCheckoutProduct(t, productRepo, "vanish-doomed", 3, 5, true)

	saveCheckoutCart(t, cartRepo, "session-vanished", []models.CartLine{
		{ProductID: keeper.ID, Name: keeper.Name, UnitPrice: keeper.Price, Quantity: 2},
		{ProductID: doomed.ID, Name: doomed.Name, UnitPrice: doomed.Price, Quantity: 1},
	})

	// 商品在加入购物车之后被删除
	if err := productRepo.Delete(doomed.ID); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}

	_, err := svc.Checkout(context.Background(), CheckoutInput{SessionID: "session-vanished"})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}

	got, err := productRepo.GetByID(keeper.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("keeper stock must stay 5, got %d", got.Stock)
	}

	orders, _, err := orderRepo.List(repository.OrderListFilter{Page: 1, PageSize: 50, ProductID: keeper.ID})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("no orders expected, got %d", len(orders))
	}

	cart, err := cartRepo.Get(context.Background(), "session-vanished")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart.IsEmpty() {
		t.Fatal("cart must be kept after failed checkout")
	}
}
