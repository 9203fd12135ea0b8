package catalog

import (
	"net/url"
	"strconv"

	"github.com/angelmondragon/designstudio-backend/pkg/enums"
)

// ProductQuery filters the product list.
type ProductQuery struct {
	CategoryCode string
	Page         int
	PageSize     int
}

func (q ProductQuery) values() url.Values {
	values := url.Values{}
	setString(values, "categoryCode", q.CategoryCode)
	setInt(values, "page", q.Page)
	setInt(values, "pageSize", q.PageSize)
	return values
}

// StoneQuery filters the stone list. Zero values are omitted from the request;
// slice filters repeat the parameter once per code.
type StoneQuery struct {
	Page        int
	PageSize    int
	Shape       string
	Color       []string
	Clarity     []string
	Cut         []string
	MinCarat    *float64
	MaxCarat    *float64
	MinBudget   *float64
	MaxBudget   *float64
	Certificate []string
	Type        enums.StoneType
	Sort        enums.StoneSort
}

// Values encodes the query the way the catalog backend expects it.
func (q StoneQuery) Values() url.Values {
	values := url.Values{}
	setInt(values, "page", q.Page)
	setInt(values, "pageSize", q.PageSize)
	setString(values, "shape", q.Shape)
	for _, code := range q.Color {
		values.Add("color", code)
	}
	for _, code := range q.Clarity {
		values.Add("clarity", code)
	}
	for _, code := range q.Cut {
		values.Add("cut", code)
	}
	setFloat(values, "minCarat", q.MinCarat)
	setFloat(values, "maxCarat", q.MaxCarat)
	setFloat(values, "minBudget", q.MinBudget)
	setFloat(values, "maxBudget", q.MaxBudget)
	for _, code := range q.Certificate {
		values.Add("certificate", code)
	}
	setString(values, "type", q.Type.String())
	if q.Sort != "" && q.Sort != enums.StoneSortDefault {
		values.Set("sort", q.Sort.String())
	}
	return values
}

func setString(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

func setInt(values url.Values, key string, value int) {
	if value > 0 {
		values.Set(key, strconv.Itoa(value))
	}
}

func setFloat(values url.Values, key string, value *float64) {
	if value != nil {
		values.Set(key, strconv.FormatFloat(*value, 'f', -1, 64))
	}
}
