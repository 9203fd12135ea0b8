package designsessions

import (
	"github.com/angelmondragon/designstudio-backend/api/validators"
	"github.com/angelmondragon/designstudio-backend/internal/filters"
)

const maxURLLength = 2048

type createSessionRequest struct {
	URL string `json:"url" validate:"omitempty,max=2048"`
}

type navigateRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

func cleanURL(raw string) string {
	return validators.SanitizeString(raw, maxURLLength)
}

type stepRequest struct {
	Step   int    `json:"step" validate:"required"`
	Intent string `json:"intent"`
}

type settingTypeRequest struct {
	Choice string `json:"choice" validate:"required"`
	Icon   string `json:"icon" validate:"max=65536"`
}

type filtersRequest struct {
	Filters filters.StoneFilters `json:"filters"`
}

type bandClickRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

type shapeRequest struct {
	Shape string `json:"shape" validate:"max=64"`
}

type pageRequest struct {
	Page int `json:"page" validate:"required,min=1"`
}

type sortRequest struct {
	SortBy string `json:"sortBy" validate:"required"`
}
