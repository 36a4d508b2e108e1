package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/plantitas-de-la-fe/pos-backend/api/middleware"
	"github.com/plantitas-de-la-fe/pos-backend/api/responses"
	"github.com/plantitas-de-la-fe/pos-backend/api/validators"
	"github.com/plantitas-de-la-fe/pos-backend/internal/catalog"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
	pkgerrors "github.com/plantitas-de-la-fe/pos-backend/pkg/errors"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
)

type createProductRequest struct {
	SKU                   string  `json:"sku" validate:"required,min=1,max=64"`
	Name                  string  `json:"name" validate:"required,min=1,max=200"`
	CategoryID            *uint   `json:"category_id,omitempty"`
	Price                 int     `json:"price" validate:"required,min=1"`
	Stock                 int     `json:"stock" validate:"min=0"`
	DiscountPct           int     `json:"discount_pct" validate:"min=0,max=90"`
	WateringFrequencyDays *int    `json:"watering_frequency_days,omitempty" validate:"omitempty,min=1"`
	ShelfLifeDays         *int    `json:"shelf_life_days,omitempty" validate:"omitempty,min=1"`
	ClimateSensitivity    *string `json:"climate_sensitivity,omitempty"`
	IntakeDate            *string `json:"intake_date,omitempty"`
	ImagePath             *string `json:"image_path,omitempty"`
}

type updateProductRequest struct {
	SKU                   *string `json:"sku,omitempty" validate:"omitempty,min=1,max=64"`
	Name                  *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	CategoryID            *uint   `json:"category_id,omitempty"`
	ClearCategory         bool    `json:"clear_category,omitempty"`
	Price                 *int    `json:"price,omitempty" validate:"omitempty,min=1"`
	Stock                 *int    `json:"stock,omitempty" validate:"omitempty,min=0"`
	DiscountPct           *int    `json:"discount_pct,omitempty" validate:"omitempty,min=0,max=90"`
	WateringFrequencyDays *int    `json:"watering_frequency_days,omitempty" validate:"omitempty,min=1"`
	ShelfLifeDays         *int    `json:"shelf_life_days,omitempty" validate:"omitempty,min=1"`
	ClimateSensitivity    *string `json:"climate_sensitivity,omitempty"`
	IntakeDate            *string `json:"intake_date,omitempty"`
	ImagePath             *string `json:"image_path,omitempty"`
}

type careActionRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=500"`
}

func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := strings.TrimSpace(r.URL.Query().Get("search"))
		products, err := svc.ListProducts(r.Context(), search)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func ProductsGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProduct(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductsCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateProductInput{
			SKU:                   payload.SKU,
			Name:                  payload.Name,
			CategoryID:            payload.CategoryID,
			Price:                 payload.Price,
			Stock:                 payload.Stock,
			DiscountPct:           payload.DiscountPct,
			WateringFrequencyDays: payload.WateringFrequencyDays,
			ShelfLifeDays:         payload.ShelfLifeDays,
			ImagePath:             payload.ImagePath,
		}

		sensitivity, err := parseSensitivity(payload.ClimateSensitivity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.ClimateSensitivity = sensitivity

		intake, err := parseDate(payload.IntakeDate, "intake_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.IntakeDate = intake

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductsUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			SKU:                   payload.SKU,
			Name:                  payload.Name,
			CategoryID:            payload.CategoryID,
			ClearCategory:         payload.ClearCategory,
			Price:                 payload.Price,
			Stock:                 payload.Stock,
			DiscountPct:           payload.DiscountPct,
			WateringFrequencyDays: payload.WateringFrequencyDays,
			ShelfLifeDays:         payload.ShelfLifeDays,
			ImagePath:             payload.ImagePath,
		}

		sensitivity, err := parseSensitivity(payload.ClimateSensitivity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.ClimateSensitivity = sensitivity

		intake, err := parseDate(payload.IntakeDate, "intake_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.IntakeDate = intake

		product, err := svc.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductsDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// ProductsWater registers a watering and clears the related alerts.
func ProductsWater(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return careAction(svc.RecordWatering, logg)
}

// ProductsExtendLife resets the shelf-life clock keeping alert context.
func ProductsExtendLife(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return careAction(svc.ExtendLife, logg)
}

func careAction(action func(ctx context.Context, productID string, input catalog.CareActionInput) (*catalog.ProductDTO, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload careActionRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		input := catalog.CareActionInput{Notes: payload.Notes}
		if name := middleware.UserNameFromContext(r.Context()); name != "" {
			input.PerformedBy = &name
		}

		product, err := action(r.Context(), chi.URLParam(r, "productID"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func parseSensitivity(raw *string) (*enums.ClimateSensitivity, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	sensitivity, err := enums.ParseClimateSensitivity(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid climate sensitivity")
	}
	return &sensitivity, nil
}

func parseDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value, err := time.Parse(time.DateOnly, strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid date, expected YYYY-MM-DD").WithDetails(map[string]any{"field": field})
	}
	return &value, nil
}
