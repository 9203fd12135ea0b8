package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/designstudio-backend/api/responses"
	"github.com/angelmondragon/designstudio-backend/api/validators"
	"github.com/angelmondragon/designstudio-backend/internal/filters"
	"github.com/angelmondragon/designstudio-backend/internal/wizard"
	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
)

// CatalogReader is the read-only catalog surface exposed to the storefront.
type CatalogReader interface {
	StoneFilters(ctx context.Context) (*catalog.StoneFilterOptions, error)
	Materials(ctx context.Context, activeOnly bool) ([]catalog.Material, error)
	GetStone(ctx context.Context, id int64) (*catalog.Stone, error)
	ResolveImageURL(path string) string
}

type stoneFiltersResponse struct {
	Raw     *catalog.StoneFilterOptions `json:"raw"`
	Options filters.Options             `json:"options"`
}

// CatalogStoneFilters returns the catalog's filter options alongside the
// normalized option codes the filter panel uses.
func CatalogStoneFilters(client CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		opts, err := client.StoneFilters(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stoneFiltersResponse{Raw: opts, Options: filters.OptionsFromCatalog(opts)})
	}
}

// CatalogMaterials lists active metal materials.
func CatalogMaterials(client CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		materials, err := client.Materials(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, materials)
	}
}

// CatalogStone returns one stone decorated with its gallery and certificate link.
func CatalogStone(client CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, "stoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stone, err := client.GetStone(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wizard.NewStoneView(stone, client.ResolveImageURL))
	}
}
