package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/domain"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/service"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type ProductRequestDTO struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Gender      string         `json:"gender"`
	Sizes       []string       `json:"sizes"`
	Stock       int            `json:"stock"`
	Images      []domain.Image `json:"images"`
	Featured    bool           `json:"featured"`
	Trending    bool           `json:"trending"`
}

type SetStockRequestDTO struct {
	Stock int `json:"stock"`
}

type ProductListResponse struct {
	Products []*domain.Product `json:"products"`
	Total    int64             `json:"total"`
	Page     int64             `json:"page"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.ProductFilter{
		Category: q.Get("category"),
		Gender:   q.Get("gender"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	if v := q.Get("featured"); v != "" {
		b := v == "true"
		filter.Featured = &b
	}
	if v := q.Get("trending"); v != "" {
		b := v == "true"
		filter.Trending = &b
	}
	filter.Page, _ = strconv.ParseInt(q.Get("page"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(q.Get("limit"), 10, 64)

	products, total, err := h.products.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	respondJSON(w, http.StatusOK, ProductListResponse{Products: products, Total: total, Page: page})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	product := productFromDTO(req)
	if err := h.products.Create(r.Context(), product); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	existing, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	product := productFromDTO(req)
	product.ID = id
	product.Rating = existing.Rating
	product.CreatedAt = existing.CreatedAt

	if err := h.products.Update(r.Context(), product); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req SetStockRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.products.SetStock(r.Context(), id, req.Stock); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "stock updated"})
}

func productFromDTO(req ProductRequestDTO) *domain.Product {
	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    domain.Category(req.Category),
		Gender:      domain.Gender(req.Gender),
		Sizes:       req.Sizes,
		Stock:       req.Stock,
		Images:      req.Images,
		Featured:    req.Featured,
		Trending:    req.Trending,
	}
}
