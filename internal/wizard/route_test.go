package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/designstudio-backend/pkg/enums"
)

func ptr(v int64) *int64 { return &v }

func TestParseRoute(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Route
	}{
		{name: "root", url: "/design-studio", want: Route{Step: StepStone}},
		{name: "trailing slash", url: "/design-studio/", want: Route{Step: StepStone}},
		{
			name: "stone detail",
			url:  "/design-studio/stone/42",
			want: Route{Step: StepStone, Detail: DetailStone, StoneID: ptr(42)},
		},
		{
			name: "setting with product",
			url:  "/design-studio/setting/ring/7?stone=42&stoneShape=Oval&stoneType=lab-grown",
			want: Route{
				Step:       StepSetting,
				Detail:     DetailProduct,
				StoneID:    ptr(42),
				StoneShape: "Oval",
				StoneType:  enums.StoneTypeLabGrown,
				ProductID:  ptr(7),
				Setting:    enums.SettingChoiceRing,
			},
		},
		{
			name: "summary",
			url:  "/design-studio/summary/necklace?stone=42&product=7",
			want: Route{Step: StepSummary, StoneID: ptr(42), ProductID: ptr(7), Setting: enums.SettingChoiceNecklace},
		},
		{
			name: "legacy query names",
			url:  "/design-studio?stoneId=5&productId=9&centerStoneShape=Pear&centerStoneType=natural&setting=earring",
			want: Route{
				Step:       StepStone,
				StoneID:    ptr(5),
				ProductID:  ptr(9),
				StoneShape: "Pear",
				StoneType:  enums.StoneTypeNatural,
				Setting:    enums.SettingChoiceEarring,
			},
		},
		{
			name: "invalid ids are absent",
			url:  "/design-studio?stone=abc&product=-3",
			want: Route{Step: StepStone},
		},
		{
			name: "unknown setting is dropped",
			url:  "/design-studio/setting/bracelet/7",
			want: Route{Step: StepSetting},
		},
		{
			name: "outside the base path",
			url:  "/shop/setting/ring",
			want: Route{Step: StepStone},
		},
		{name: "garbage", url: "%zz", want: Route{Step: StepStone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRoute(tt.url))
		})
	}
}

func TestPathsBuild(t *testing.T) {
	paths := DefaultPaths

	assert.Equal(t, "/design-studio", paths.Build(StepStone, DetailNone, URLParams{StoneID: ptr(42)}))
	assert.Equal(t, "/design-studio/stone/42", paths.Build(StepStone, DetailStone, URLParams{StoneID: ptr(42)}))
	assert.Equal(t, "/design-studio", paths.Build(Step(9), DetailNone, URLParams{}))

	setting := paths.Build(StepSetting, DetailNone, URLParams{
		StoneID:    ptr(42),
		StoneShape: "Oval",
		Setting:    enums.SettingChoiceRing,
		ProductID:  ptr(7),
	})
	assert.Equal(t, "/design-studio/setting/ring?stone=42&stoneShape=Oval", setting)

	detail := paths.Build(StepSetting, DetailProduct, URLParams{
		StoneID:   ptr(42),
		StoneType: enums.StoneTypeNatural,
		Setting:   enums.SettingChoiceRing,
		ProductID: ptr(7),
	})
	assert.Equal(t, "/design-studio/setting/ring/7?stone=42&stoneType=natural", detail)

	summary := paths.Build(StepSummary, DetailNone, URLParams{StoneID: ptr(42), ProductID: ptr(7), Setting: enums.SettingChoiceRing})
	assert.Equal(t, "/design-studio/summary/ring?product=7&stone=42", summary)
}

func TestBuildThenParseKeepsSelection(t *testing.T) {
	params := URLParams{StoneID: ptr(3), ProductID: ptr(11), Setting: enums.SettingChoiceNecklace}
	route := ParseRoute(DefaultPaths.Build(StepSetting, DetailProduct, params))

	require.Equal(t, StepSetting, route.Step)
	require.Equal(t, DetailProduct, route.Detail)
	require.NotNil(t, route.StoneID)
	require.NotNil(t, route.ProductID)
	assert.Equal(t, int64(3), *route.StoneID)
	assert.Equal(t, int64(11), *route.ProductID)
	assert.Equal(t, enums.SettingChoiceNecklace, route.Setting)
}

func TestNewPathsCustomBase(t *testing.T) {
	paths := NewPaths("studio/")
	assert.Equal(t, "/studio", paths.Base)
	assert.Equal(t, "/studio/stone/1", paths.Build(StepStone, DetailStone, URLParams{StoneID: ptr(1)}))

	route := paths.Parse("/studio/summary/ring")
	assert.Equal(t, StepSummary, route.Step)
	assert.Equal(t, DefaultBasePath, NewPaths("").Base)
}
