package designsessions

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/designstudio-backend/api/responses"
	"github.com/angelmondragon/designstudio-backend/api/validators"
	"github.com/angelmondragon/designstudio-backend/internal/wizard"
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
)

// Filter state lives in the filter store rather than the session row, so
// these handlers use the controller directly.

func Filters(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return withController(svc, logg, func(w http.ResponseWriter, r *http.Request, ctrl *wizard.Controller) error {
		responses.WriteSuccess(w, ctrl.Filters(r.Context()))
		return nil
	})
}

func UpdateFilters(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return withController(svc, logg, func(w http.ResponseWriter, r *http.Request, ctrl *wizard.Controller) error {
		var payload filtersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return err
		}
		responses.WriteSuccess(w, ctrl.UpdateFilters(r.Context(), payload.Filters))
		return nil
	})
}

func ClickBand(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return withController(svc, logg, func(w http.ResponseWriter, r *http.Request, ctrl *wizard.Controller) error {
		band, err := bandParam(r)
		if err != nil {
			return err
		}
		var payload bandClickRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return err
		}
		view, err := ctrl.ClickBand(r.Context(), band, *payload.Index)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, view)
		return nil
	})
}

func SetShape(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return withController(svc, logg, func(w http.ResponseWriter, r *http.Request, ctrl *wizard.Controller) error {
		var payload shapeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return err
		}
		responses.WriteSuccess(w, ctrl.SetShape(r.Context(), strings.TrimSpace(payload.Shape)))
		return nil
	})
}

func SetPage(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return withController(svc, logg, func(w http.ResponseWriter, r *http.Request, ctrl *wizard.Controller) error {
		var payload pageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return err
		}
		responses.WriteSuccess(w, ctrl.SetPage(r.Context(), payload.Page))
		return nil
	})
}

func SetSort(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return withController(svc, logg, func(w http.ResponseWriter, r *http.Request, ctrl *wizard.Controller) error {
		var payload sortRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return err
		}
		sort, err := enums.ParseStoneSort(payload.SortBy)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort")
		}
		responses.WriteSuccess(w, ctrl.SetSort(r.Context(), sort))
		return nil
	})
}

// Stones lists the stone grid for the session's filters. stoneType defaults
// to natural.
func Stones(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return withController(svc, logg, func(w http.ResponseWriter, r *http.Request, ctrl *wizard.Controller) error {
		stoneType, err := validators.ParseQueryEnum(r, "stoneType", enums.StoneTypeNatural, enums.ParseStoneType)
		if err != nil {
			return err
		}
		list, err := ctrl.Stones(r.Context(), stoneType)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, list)
		return nil
	})
}
