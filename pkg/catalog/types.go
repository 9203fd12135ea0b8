package catalog

import (
	"github.com/angelmondragon/designstudio-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Pagination mirrors the catalog backend's list metadata.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

type listMeta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ProductSummary is one entry of the product grid.
type ProductSummary struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Image        string          `json:"image"`
	Colors       []string        `json:"colors"`
	CategoryCode string          `json:"categoryCode,omitempty"`
	CategoryName string          `json:"categoryName,omitempty"`
}

// ProductPage is a page of product summaries.
type ProductPage struct {
	Items      []ProductSummary `json:"items"`
	Pagination *Pagination      `json:"pagination,omitempty"`
}

// Image is a gallery entry shared by products and stones.
type Image struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	Badge     string `json:"badge,omitempty"`
	Aspect    string `json:"aspect,omitempty"`
	SortOrder *int   `json:"sortOrder,omitempty"`
	IsPrimary *bool  `json:"isPrimary,omitempty"`
}

// Primary reports whether the image is flagged as the primary one.
func (i Image) Primary() bool {
	return i.IsPrimary != nil && *i.IsPrimary
}

func (i Image) order() int {
	if i.SortOrder == nil {
		return 0
	}
	return *i.SortOrder
}

type Category struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	IconSVG string `json:"iconSvg,omitempty"`
}

// ProductDetail is the full product record behind the detail overlay.
type ProductDetail struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	Category        Category        `json:"category"`
	AvailableColors []string        `json:"availableColors"`
	Images          []Image         `json:"images"`
}

// Stone is a loose stone record; detail responses also carry Images.
type Stone struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Type                 enums.StoneType `json:"type"`
	Shape                string          `json:"shape"`
	Carat                float64         `json:"carat"`
	Color                string          `json:"color"`
	Clarity              string          `json:"clarity"`
	Cut                  string          `json:"cut"`
	Certificate          string          `json:"certificate,omitempty"`
	Ratio                float64         `json:"ratio"`
	Price                decimal.Decimal `json:"price"`
	Currency             string          `json:"currency"`
	ExternalReportNo     string          `json:"externalReportNo,omitempty"`
	ExternalCertNo       string          `json:"externalCertNo,omitempty"`
	ExternalCertType     string          `json:"externalCertType,omitempty"`
	ExternalPolish       string          `json:"externalPolish,omitempty"`
	ExternalSymmetry     string          `json:"externalSymmetry,omitempty"`
	ExternalFluorescence string          `json:"externalFluorescence,omitempty"`
	ExternalDepthPercent *float64        `json:"externalDepthPercent,omitempty"`
	ExternalTablePercent *float64        `json:"externalTablePercent,omitempty"`
	ExternalVideoURL     string          `json:"externalVideoUrl,omitempty"`
	PrimaryImageURL      string          `json:"primaryImageUrl,omitempty"`
	ShapeIconSVG         string          `json:"shapeIconSvg,omitempty"`
	Images               []Image         `json:"images,omitempty"`
}

// StonePage is a page of stones.
type StonePage struct {
	Items      []Stone     `json:"items"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// FilterOption is one selectable code in a stone filter band.
type FilterOption struct {
	Code    string `json:"code"`
	Label   string `json:"label"`
	IconSVG string `json:"iconSvg,omitempty"`
}

// StoneFilterOptions lists the codes the catalog knows for each filter band.
type StoneFilterOptions struct {
	Shapes       []FilterOption `json:"shapes"`
	Colors       []FilterOption `json:"colors"`
	Clarities    []FilterOption `json:"clarities"`
	Cuts         []FilterOption `json:"cuts"`
	Certificates []FilterOption `json:"certificates"`
}

type ProductCategory struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	IconSVG      string `json:"iconSvg,omitempty"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
}

type Material struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Karat        string `json:"karat,omitempty"`
	Description  string `json:"description,omitempty"`
	SVGIcon      string `json:"svgIcon,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`
}
