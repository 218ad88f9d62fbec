package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/squareeyes/storefront/api/middleware"
	"github.com/squareeyes/storefront/api/responses"
	"github.com/squareeyes/storefront/internal/favourites"
	pkgerrors "github.com/squareeyes/storefront/pkg/errors"
	"github.com/squareeyes/storefront/pkg/logger"
)

// FavouritesList returns the session's favourited item ids.
func FavouritesList(svc *favourites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favourites unavailable"))
			return
		}

		sessionID, _ := middleware.SessionFromContext(ctx)
		ids := svc.List(ctx, sessionID)
		if ids == nil {
			ids = []string{}
		}
		responses.WriteSuccess(w, map[string]any{"items": ids})
	}
}

// FavouritesToggle flips an item's favourite state and reports the new
// one.
func FavouritesToggle(svc *favourites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favourites unavailable"))
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

		favourited := svc.Toggle(ctx, sessionID, itemID)
		responses.WriteSuccess(w, map[string]any{"id": itemID, "favourited": favourited})
	}
}
