package controllers

import (
	"net/http"

	"github.com/squareeyes/storefront/api/middleware"
	"github.com/squareeyes/storefront/api/responses"
	"github.com/squareeyes/storefront/internal/catalog"
	"github.com/squareeyes/storefront/internal/recommend"
	pkgerrors "github.com/squareeyes/storefront/pkg/errors"
	"github.com/squareeyes/storefront/pkg/logger"
)

// Recommendations serves the genre-based feed for the session's cart.
func Recommendations(feed *recommend.Feed, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if feed == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recommendations unavailable"))
			return
		}

		sessionID, _ := middleware.SessionFromContext(ctx)
		items := feed.ForSession(ctx, sessionID)
		if items == nil {
			items = []catalog.Item{}
		}
		responses.WriteSuccess(w, items)
	}
}
