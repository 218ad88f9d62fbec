package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/squareeyes/storefront/api/responses"
	"github.com/squareeyes/storefront/internal/catalog"
	pkgerrors "github.com/squareeyes/storefront/pkg/errors"
	"github.com/squareeyes/storefront/pkg/logger"
)

// CatalogList serves the browsable catalog with the supported filter
// and sort query parameters.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filters := catalog.ListFilters{
			Genre: strings.TrimSpace(r.URL.Query().Get("genre")),
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("price_min")); raw != "" {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price_min must be a number"))
				return
			}
			filters.PriceMin = &value
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("price_max")); raw != "" {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price_max must be a number"))
				return
			}
			filters.PriceMax = &value
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("sort")); raw != "" {
			order, err := catalog.ParseSortOrder(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown sort order"))
				return
			}
			filters.Sort = order
		}

		items, err := svc.Browse(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// CatalogGet serves one catalog item by id.
func CatalogGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if itemID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id required"))
			return
		}

		item, err := svc.GetItem(ctx, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}
