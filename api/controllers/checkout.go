package controllers

import (
	"net/http"

	"github.com/squareeyes/storefront/api/middleware"
	"github.com/squareeyes/storefront/api/responses"
	"github.com/squareeyes/storefront/api/validators"
	"github.com/squareeyes/storefront/internal/checkout"
	"github.com/squareeyes/storefront/pkg/enums"
	pkgerrors "github.com/squareeyes/storefront/pkg/errors"
	"github.com/squareeyes/storefront/pkg/logger"
)

type submitPayload struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Method     string `json:"method" validate:"required,oneof=card vipps invoice"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVC        string `json:"cvc"`
}

// CheckoutStatus reports where the session's checkout stands.
func CheckoutStatus(manager *checkout.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		sessionID, _ := middleware.SessionFromContext(ctx)
		responses.WriteSuccess(w, manager.Refresh(ctx, sessionID))
	}
}

// CheckoutBegin starts checkout, locking the cart's lines and total.
func CheckoutBegin(manager *checkout.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		sessionID, err := mutationSession(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := manager.Begin(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// CheckoutBack abandons payment entry and returns to reviewing.
func CheckoutBack(manager *checkout.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		sessionID, err := mutationSession(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := manager.Back(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// CheckoutSubmit validates the payment form and completes the order.
func CheckoutSubmit(manager *checkout.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		sessionID, err := mutationSession(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload submitPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		order, err := manager.Submit(ctx, sessionID, checkout.SubmitInput{
			Name:       payload.Name,
			Email:      payload.Email,
			Method:     method,
			CardNumber: payload.CardNumber,
			Expiry:     payload.Expiry,
			CVC:        payload.CVC,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderLast serves the session's completed order exactly once.
func OrderLast(manager *checkout.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		sessionID, _ := middleware.SessionFromContext(ctx)
		order, ok := manager.TakeLastOrder(ctx, sessionID)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no completed order"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}
