package service

import (
	"context"
	"testing"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/domain"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_Create_Validation(t *testing.T) {
	svc := NewProductService(NewMockProductRepository())

	cases := []struct {
		name    string
		mutate  func(*domain.Product)
		wantErr error
	}{
		{"missing name", func(p *domain.Product) { p.Name = "" }, ErrMissingName},
		{"negative price", func(p *domain.Product) { p.Price = -1 }, ErrInvalidPrice},
		{"unknown category", func(p *domain.Product) { p.Category = "Hats" }, ErrInvalidCategory},
		{"unknown gender", func(p *domain.Product) { p.Gender = "Kids" }, ErrInvalidGender},
		{"no sizes", func(p *domain.Product) { p.Sizes = nil }, ErrNoSizes},
		{"unknown size", func(p *domain.Product) { p.Sizes = []string{"M", "4XL"} }, ErrNoSizes},
		{"negative stock", func(p *domain.Product) { p.Stock = -5 }, ErrInvalidStock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := testHoodie(500, 10)
			tc.mutate(product)
			assert.ErrorIs(t, svc.Create(context.Background(), product), tc.wantErr)
		})
	}

	assert.NoError(t, svc.Create(context.Background(), testHoodie(500, 10)))
}

func TestProductService_List_DefaultsPagination(t *testing.T) {
	catalog := NewMockProductRepository(testHoodie(500, 10))
	svc := NewProductService(catalog)

	products, total, err := svc.List(context.Background(), repository.ProductFilter{Limit: -3, Page: 0})

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.EqualValues(t, 1, total)
}

func TestProductService_SetStock(t *testing.T) {
	product := testHoodie(500, 10)
	catalog := NewMockProductRepository(product)
	svc := NewProductService(catalog)

	assert.ErrorIs(t, svc.SetStock(context.Background(), product.ID, -1), ErrInvalidStock)

	require.NoError(t, svc.SetStock(context.Background(), product.ID, 42))
	assert.Equal(t, 42, catalog.Stock(product.ID))
}
