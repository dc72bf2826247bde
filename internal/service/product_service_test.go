package service_test

import (
	"strings"

	"order-admin/internal/models"
	"order-admin/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *OrderServiceSuite) TestProductCreate_TrimsAndStores() {
	desc := "  mechanical  "
	stock := 0
	p, err := s.products.Create(s.ctx, service.ProductInput{
		Name:          "  Keyboard  ",
		Description:   &desc,
		Price:         decimal.RequireFromString("0.01"),
		StockQuantity: &stock,
	})
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, p.ID)
	s.Equal("Keyboard", p.Name)
	s.Require().NotNil(p.Description)
	s.Equal("mechanical", *p.Description)
	s.Equal(0, p.StockQuantity)
}

func (s *OrderServiceSuite) TestProductCreate_DuplicateNameConflict() {
	s.product("Keyboard", "10.00", 1)

	stock := 1
	_, err := s.products.Create(s.ctx, service.ProductInput{
		Name: "Keyboard", Price: decimal.NewFromInt(1), StockQuantity: &stock,
	})
	s.ErrorIs(err, service.ErrProductNameTaken)
	s.Equal(service.KindConflict, service.KindOf(err))
}

func (s *OrderServiceSuite) TestProductCreate_ValidationBeforeWrite() {
	_, err := s.products.Create(s.ctx, service.ProductInput{Name: "ab", Price: decimal.NewFromInt(-1)})
	e, ok := service.AsError(err)
	s.Require().True(ok)
	s.Equal(service.KindValidation, e.Kind)

	fields := map[string]string{}
	for _, f := range e.Fields {
		fields[f.Field] = f.Tag
	}
	s.Equal(map[string]string{"name": "min", "price": "gt", "stock_quantity": "required"}, fields)

	list, err := s.products.List(s.ctx, service.ProductFilter{})
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *OrderServiceSuite) TestProductUpdate_PartialAndConflict() {
	a := s.product("Keyboard", "10.00", 5)
	s.product("Mouse", "5.00", 5)

	name := "Gaming Keyboard"
	p, err := s.products.Update(s.ctx, a.ID, service.ProductPatch{Name: &name})
	s.Require().NoError(err)
	s.Equal("Gaming Keyboard", p.Name)
	s.True(p.Price.Equal(decimal.RequireFromString("10.00")))
	s.Equal(5, p.StockQuantity)

	taken := "Mouse"
	_, err = s.products.Update(s.ctx, a.ID, service.ProductPatch{Name: &taken})
	s.ErrorIs(err, service.ErrProductNameTaken)

	same := "Gaming Keyboard"
	_, err = s.products.Update(s.ctx, a.ID, service.ProductPatch{Name: &same})
	s.Require().NoError(err)

	_, err = s.products.Update(s.ctx, a.ID, service.ProductPatch{})
	s.Equal(service.KindValidation, service.KindOf(err))

	stock := 9
	_, err = s.products.Update(s.ctx, uuid.New(), service.ProductPatch{StockQuantity: &stock})
	s.ErrorIs(err, service.ErrProductNotFound)
}

func (s *OrderServiceSuite) TestProductList_SearchIsCaseInsensitive() {
	s.product("Keyboard", "10.00", 5)
	s.product("Mouse", "5.00", 5)
	s.product("keyboard wrist rest", "7.00", 5)

	list, err := s.products.List(s.ctx, service.ProductFilter{Search: "KEYB"})
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	for _, p := range list {
		s.True(strings.Contains(strings.ToLower(p.Name), "keyb"))
	}
}

func (s *OrderServiceSuite) TestProductDelete_KeepsHistory() {
	a := s.product("Keyboard", "10.00", 5)
	ord, err := s.orders.CreateOrder(s.ctx, service.CreateOrderInput{Items: []service.OrderItemInput{
		{ProductID: a.ID, Quantity: 2},
	}})
	s.Require().NoError(err)
	_, err = s.orders.ConfirmOrder(s.ctx, ord.ID)
	s.Require().NoError(err)

	logs, err := s.products.InventoryLogs(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Len(logs, 1)

	s.Require().NoError(s.products.Delete(s.ctx, a.ID))
	s.ErrorIs(s.products.Delete(s.ctx, a.ID), service.ErrProductNotFound)
	_, err = s.products.Get(s.ctx, a.ID)
	s.ErrorIs(err, service.ErrProductNotFound)
	_, err = s.products.InventoryLogs(s.ctx, a.ID)
	s.ErrorIs(err, service.ErrProductNotFound)

	orderLogs := s.orderLogs(ord.ID)
	s.Require().Len(orderLogs, 1)
	s.Require().NotNil(orderLogs[0].ProductID)
	s.Equal(a.ID, *orderLogs[0].ProductID)

	// Cancelling after the product is gone skips the missing line.
	got, err := s.orders.CancelOrder(s.ctx, ord.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCancelled, got.Status)
	s.Len(s.orderLogs(ord.ID), 1)
}
