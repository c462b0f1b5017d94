package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartlyhq/cartly-backend/api/middleware"
	"github.com/cartlyhq/cartly-backend/api/responses"
	"github.com/cartlyhq/cartly-backend/api/validators"
	"github.com/cartlyhq/cartly-backend/internal/orders"
	"github.com/cartlyhq/cartly-backend/pkg/logger"
)

type orderItemRefPayload struct {
	CartID                uuid.UUID        `json:"cart_id" validate:"required"`
	RequestedPricePerUnit *decimal.Decimal `json:"requested_price_per_unit,omitempty"`
	OfferedPricePerUnit   *decimal.Decimal `json:"offered_price_per_unit,omitempty"`
	BulkMinQuantity       *int             `json:"bulk_min_quantity,omitempty" validate:"omitempty,min=1"`
}

type createOrderPayload struct {
	Items     []orderItemRefPayload `json:"items" validate:"required,min=1,dive"`
	Address   string                `json:"address" validate:"required,min=3,max=500"`
	City      string                `json:"city" validate:"required,min=1,max=120"`
	State     string                `json:"state" validate:"required,min=1,max=120"`
	ZipCode   string                `json:"zip_code" validate:"required,min=2,max=20"`
	Country   string                `json:"country" validate:"required,min=2,max=120"`
	PromoCode string                `json:"promo_code,omitempty" validate:"omitempty,max=60"`
	Notes     string                `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// OrdersCreate checks out the referenced cart lines.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items := make([]orders.OrderItemRef, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, orders.OrderItemRef{
				CartID:                item.CartID,
				RequestedPricePerUnit: item.RequestedPricePerUnit,
				OfferedPricePerUnit:   item.OfferedPricePerUnit,
				BulkMinQuantity:       item.BulkMinQuantity,
			})
		}

		order, err := svc.Create(ctx, middleware.CustomerIDFromContext(ctx), orders.CreateOrderInput{
			Items:     items,
			Address:   payload.Address,
			City:      payload.City,
			State:     payload.State,
			ZipCode:   payload.ZipCode,
			Country:   payload.Country,
			PromoCode: payload.PromoCode,
			Notes:     payload.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrdersListMine returns the customer's order history, newest first.
func OrdersListMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, meta, err := svc.ListMine(ctx, middleware.CustomerIDFromContext(ctx), params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WritePaged(w, items, meta)
	}
}

// OrdersGet returns one of the customer's orders with items.
func OrdersGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Get(ctx, orderID, middleware.CustomerIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrdersCancel cancels a pending order.
func OrdersCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Cancel(ctx, orderID, middleware.CustomerIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
