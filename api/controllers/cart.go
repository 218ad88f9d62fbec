package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/squareeyes/storefront/api/middleware"
	"github.com/squareeyes/storefront/api/responses"
	"github.com/squareeyes/storefront/api/validators"
	"github.com/squareeyes/storefront/internal/cart"
	"github.com/squareeyes/storefront/internal/catalog"
	pkgerrors "github.com/squareeyes/storefront/pkg/errors"
	"github.com/squareeyes/storefront/pkg/logger"
)

type cartSnapshot struct {
	Items []cart.Line     `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type updateQtyPayload struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}

func snapshotCart(r *http.Request, store *cart.Store, sessionID string) cartSnapshot {
	ctx := r.Context()
	items := store.ReadAll(ctx, sessionID)
	if items == nil {
		items = []cart.Line{}
	}
	return cartSnapshot{
		Items: items,
		Count: store.Count(ctx, sessionID),
		Total: store.Total(ctx, sessionID),
	}
}

// mutationSession rejects requests that did not identify themselves;
// a generated id would scatter writes across throwaway sessions.
func mutationSession(r *http.Request) (string, error) {
	sessionID, provided := middleware.SessionFromContext(r.Context())
	if !provided {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "X-Session-Id header required")
	}
	return sessionID, nil
}

// CartGet returns the session's cart snapshot with count and total.
func CartGet(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		sessionID, _ := middleware.SessionFromContext(ctx)
		responses.WriteSuccess(w, snapshotCart(r, store, sessionID))
	}
}

// CartAddItem adds a catalog item to the cart, bumping the quantity
// when the item is already there.
func CartAddItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		sessionID, err := mutationSession(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var item catalog.Item
		if err := validators.DecodeJSONBody(r, &item); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if strings.TrimSpace(item.ID) == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id required"))
			return
		}

		store.Add(ctx, sessionID, item)
		responses.WriteSuccessStatus(w, http.StatusCreated, snapshotCart(r, store, sessionID))
	}
}

// CartUpdateQty bumps a line's quantity by exactly one in either
// direction. Unknown ids and decrements at one leave the cart as is.
func CartUpdateQty(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		sessionID, err := mutationSession(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateQtyPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if itemID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id required"))
			return
		}

		store.UpdateQty(ctx, sessionID, itemID, payload.Delta)
		responses.WriteSuccess(w, snapshotCart(r, store, sessionID))
	}
}

// CartRemoveItem deletes one line from the cart.
func CartRemoveItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		sessionID, err := mutationSession(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if itemID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id required"))
			return
		}

		store.Remove(ctx, sessionID, itemID)
		responses.WriteSuccess(w, snapshotCart(r, store, sessionID))
	}
}

// CartClear empties the cart.
func CartClear(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		sessionID, err := mutationSession(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store.Clear(ctx, sessionID)
		responses.WriteSuccess(w, snapshotCart(r, store, sessionID))
	}
}
