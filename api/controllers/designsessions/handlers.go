package designsessions

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/designstudio-backend/api/middleware"
	"github.com/angelmondragon/designstudio-backend/api/responses"
	"github.com/angelmondragon/designstudio-backend/api/validators"
	sessionsvc "github.com/angelmondragon/designstudio-backend/internal/designsessions"
	"github.com/angelmondragon/designstudio-backend/internal/filters"
	"github.com/angelmondragon/designstudio-backend/internal/wizard"
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
)

// Sessions is the design session surface the handlers drive.
type Sessions interface {
	Create(ctx context.Context, initialURL string) (*sessionsvc.Created, error)
	Controller(ctx context.Context, id uuid.UUID) (*wizard.Controller, error)
	Do(ctx context.Context, id uuid.UUID, fn func(*wizard.Controller) (wizard.Snapshot, error)) (wizard.Snapshot, error)
}

type action func(*http.Request, *wizard.Controller) (wizard.Snapshot, error)

// Create starts a design session and returns its token with the first snapshot.
func Create(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), cleanURL(payload.URL))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// Snapshot returns the session's current wizard state.
func Snapshot(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return withController(svc, logg, func(w http.ResponseWriter, r *http.Request, ctrl *wizard.Controller) error {
		responses.WriteSuccess(w, ctrl.Snapshot())
		return nil
	})
}

func Navigate(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		var payload navigateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return wizard.Snapshot{}, err
		}
		return ctrl.Navigate(r.Context(), cleanURL(payload.URL)), nil
	})
}

func ChangeStep(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		var payload stepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return wizard.Snapshot{}, err
		}
		intent, err := enums.ParseStepIntent(payload.Intent)
		if err != nil {
			return wizard.Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid step intent")
		}
		return ctrl.ChangeStep(r.Context(), wizard.Step(payload.Step), intent)
	})
}

func StoneMoreInfo(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		id, err := validators.ParsePathID(r, "stoneId")
		if err != nil {
			return wizard.Snapshot{}, err
		}
		return ctrl.StoneMoreInfo(r.Context(), id)
	})
}

func AddPendantFromGrid(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		id, err := validators.ParsePathID(r, "stoneId")
		if err != nil {
			return wizard.Snapshot{}, err
		}
		return ctrl.AddPendantFromGrid(r.Context(), id)
	})
}

func AddPendant(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		return ctrl.AddPendant(r.Context())
	})
}

// SettingTypes lists the selector options with catalog icons.
func SettingTypes(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return withController(svc, logg, func(w http.ResponseWriter, r *http.Request, ctrl *wizard.Controller) error {
		responses.WriteSuccess(w, ctrl.SettingTypes(r.Context()))
		return nil
	})
}

func SelectSettingType(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		var payload settingTypeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return wizard.Snapshot{}, err
		}
		return ctrl.SelectSettingType(r.Context(), enums.SettingChoice(payload.Choice), payload.Icon)
	})
}

func CloseSettingSelector(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		return ctrl.CloseSettingSelector(r.Context())
	})
}

func ProductMoreInfo(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		id, err := validators.ParsePathID(r, "productId")
		if err != nil {
			return wizard.Snapshot{}, err
		}
		return ctrl.ProductMoreInfo(r.Context(), id)
	})
}

func CompleteRing(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		id, err := validators.ParsePathID(r, "productId")
		if err != nil {
			return wizard.Snapshot{}, err
		}
		return ctrl.CompleteRing(r.Context(), id)
	})
}

func Confirm(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		return ctrl.Confirm(r.Context())
	})
}

func DetailBack(svc Sessions, logg *logger.Logger) http.HandlerFunc {
	return act(svc, logg, func(r *http.Request, ctrl *wizard.Controller) (wizard.Snapshot, error) {
		return ctrl.DetailBack(r.Context())
	})
}

// act resolves the session from context and runs fn through the session
// service so the resulting state is persisted.
func act(svc Sessions, logg *logger.Logger, fn action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.Do(r.Context(), id, func(ctrl *wizard.Controller) (wizard.Snapshot, error) {
			return fn(r, ctrl)
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

func withController(svc Sessions, logg *logger.Logger, fn func(http.ResponseWriter, *http.Request, *wizard.Controller) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctrl, err := svc.Controller(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := fn(w, r, ctrl); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
		}
	}
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	id := middleware.SessionIDFromContext(r.Context())
	if id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "design session required")
	}
	return id, nil
}

func bandParam(r *http.Request) (filters.Band, error) {
	band, err := filters.ParseBand(chi.URLParam(r, "band"))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid filter band")
	}
	return band, nil
}
