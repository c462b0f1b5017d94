package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartlyhq/cartly-backend/api/middleware"
	"github.com/cartlyhq/cartly-backend/api/responses"
	"github.com/cartlyhq/cartly-backend/api/validators"
	"github.com/cartlyhq/cartly-backend/internal/cart"
	"github.com/cartlyhq/cartly-backend/pkg/enums"
	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
	"github.com/cartlyhq/cartly-backend/pkg/logger"
)

type addCartItemPayload struct {
	ProductID             string           `json:"product_id" validate:"required,uuid"`
	Quantity              int              `json:"quantity" validate:"required,min=1"`
	Type                  string           `json:"type,omitempty" validate:"omitempty,oneof=regular bulk"`
	RequestedPricePerUnit *decimal.Decimal `json:"requested_price_per_unit,omitempty"`
	BulkMinQuantity       *int             `json:"bulk_min_quantity,omitempty" validate:"omitempty,min=1"`
}

type updateCartItemPayload struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// CartFetch returns the customer's active cart with totals.
func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		summary, err := svc.Fetch(ctx, middleware.CustomerIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CartAdd adds a product to the cart, merging regular lines.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		lineType, err := enums.ParseCartLineType(payload.Type)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line type"))
			return
		}

		summary, err := svc.Add(ctx, middleware.CustomerIDFromContext(ctx), cart.AddItemInput{
			ProductID:             productID,
			Quantity:              payload.Quantity,
			Type:                  lineType,
			RequestedPricePerUnit: payload.RequestedPricePerUnit,
			BulkMinQuantity:       payload.BulkMinQuantity,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

// CartUpdateQuantity sets the quantity on a cart line. Zero removes it.
func CartUpdateQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		lineID, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.UpdateQuantity(ctx, middleware.CustomerIDFromContext(ctx), lineID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CartRemove soft-deletes one cart line.
func CartRemove(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		lineID, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Remove(ctx, middleware.CustomerIDFromContext(ctx), lineID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// CartClear soft-deletes every active cart line.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := svc.Clear(ctx, middleware.CustomerIDFromContext(ctx)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
