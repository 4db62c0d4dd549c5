package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/dskvich/phone-shop-assistant/pkg/catalog"
	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

const maxSearchResults = 5

type searchPhones struct {
	catalog PhoneCatalog
}

func NewSearchPhones(catalog PhoneCatalog) *searchPhones {
	return &searchPhones{catalog: catalog}
}

func (s *searchPhones) Name() string {
	return "search_phones"
}

func (s *searchPhones) Description() string {
	return "Search for mobile phones by budget, brand, features, camera and battery requirements."
}

func (s *searchPhones) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"budget_min": {
				Type:        jsonschema.Integer,
				Description: "Minimum price in INR",
			},
			"budget_max": {
				Type:        jsonschema.Integer,
				Description: "Maximum price in INR",
			},
			"brand": {
				Type:        jsonschema.String,
				Description: "Brand name (Samsung, OnePlus, Xiaomi, etc.)",
			},
			"features": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "List of required features (5G, OIS, IP68, etc.)",
			},
			"min_camera_mp": {
				Type:        jsonschema.Integer,
				Description: "Minimum camera megapixels",
			},
			"min_battery_mah": {
				Type:        jsonschema.Integer,
				Description: "Minimum battery capacity in mAh",
			},
			"sort_by": {
				Type:        jsonschema.String,
				Description: "Sort results by 'price', 'price_desc', 'camera', 'battery', or 'performance'",
			},
		},
	}
}

type searchPhonesArgs struct {
	BudgetMin     *int     `json:"budget_min"`
	BudgetMax     *int     `json:"budget_max"`
	Brand         string   `json:"brand"`
	Features      []string `json:"features"`
	MinCameraMp   *int     `json:"min_camera_mp"`
	MinBatteryMah *int     `json:"min_battery_mah"`
	SortBy        string   `json:"sort_by"`
}

type searchPhonesResult struct {
	ID         int64    `json:"id"`
	Brand      string   `json:"brand"`
	Model      string   `json:"model"`
	Price      int      `json:"price"`
	CameraMp   int      `json:"camera_mp"`
	BatteryMah int      `json:"battery_mah"`
	Processor  string   `json:"processor"`
	RAMGb      int      `json:"ram_gb"`
	StorageGb  int      `json:"storage_gb"`
	Features   []string `json:"features"`
	Pros       []string `json:"pros"`
	Cons       []string `json:"cons"`
}

func (s *searchPhones) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var a searchPhonesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return "", fmt.Errorf("parsing search arguments: %w", err)
	}

	sortBy := a.SortBy
	if sortBy == "" {
		sortBy = "price"
	}

	slog.DebugContext(ctx, "Searching phones", "brand", a.Brand, "features", a.Features, "sortBy", sortBy)

	results := s.catalog.Search(catalog.SearchCriteria{
		BudgetMin:     a.BudgetMin,
		BudgetMax:     a.BudgetMax,
		Brand:         a.Brand,
		Features:      a.Features,
		MinCameraMp:   a.MinCameraMp,
		MinBatteryMah: a.MinBatteryMah,
	})
	results = s.catalog.SortPhones(results, sortBy)

	if len(results) == 0 {
		return "No phones found matching the criteria.", nil
	}

	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}

	out := lo.Map(results, func(p domain.Phone, _ int) searchPhonesResult {
		return searchPhonesResult{
			ID:         p.ID,
			Brand:      p.Brand,
			Model:      p.Model,
			Price:      p.Price,
			CameraMp:   p.Specs.Camera.MainMp,
			BatteryMah: p.Specs.BatteryMah,
			Processor:  p.Specs.Processor,
			RAMGb:      p.Specs.RAMGb,
			StorageGb:  p.Specs.StorageGb,
			Features:   p.Features,
			Pros:       p.Pros,
			Cons:       p.Cons,
		}
	})

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering search results: %w", err)
	}
	return string(data), nil
}
