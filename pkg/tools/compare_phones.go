package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

type comparePhones struct {
	catalog PhoneCatalog
}

func NewComparePhones(catalog PhoneCatalog) *comparePhones {
	return &comparePhones{catalog: catalog}
}

func (c *comparePhones) Name() string {
	return "compare_phones"
}

func (c *comparePhones) Description() string {
	return "Compare 2-3 mobile phones side by side."
}

func (c *comparePhones) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"phone_models": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "List of phone model names to compare (e.g., [\"Pixel 8a\", \"OnePlus 12R\"])",
			},
		},
		Required: []string{"phone_models"},
	}
}

type comparePhonesArgs struct {
	PhoneModels []string `json:"phone_models"`
}

type phoneComparison struct {
	Phones []comparisonEntry `json:"phones"`
}

type comparisonEntry struct {
	Brand         string             `json:"brand"`
	Model         string             `json:"model"`
	Price         int                `json:"price"`
	Camera        domain.CameraSpecs `json:"camera"`
	BatteryMah    int                `json:"battery_mah"`
	FastChargingW int                `json:"fast_charging_w"`
	Processor     string             `json:"processor"`
	RAMGb         int                `json:"ram_gb"`
	StorageGb     int                `json:"storage_gb"`
	DisplayInches float64            `json:"display_inches"`
	RefreshRateHz int                `json:"refresh_rate_hz"`
	WeightG       int                `json:"weight_g"`
	Features      []string           `json:"features"`
	Pros          []string           `json:"pros"`
	Cons          []string           `json:"cons"`
}

func (c *comparePhones) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var a comparePhonesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return "", fmt.Errorf("parsing compare arguments: %w", err)
	}

	if len(a.PhoneModels) < 2 || len(a.PhoneModels) > 3 {
		return "Please provide 2-3 phone models to compare.", nil
	}

	// Unresolved names are dropped; input order is preserved for the rest.
	var phones []domain.Phone
	for _, model := range a.PhoneModels {
		phone, err := c.catalog.ByModel(model)
		if err != nil {
			slog.DebugContext(ctx, "Phone not resolved for comparison", "model", model)
			continue
		}
		phones = append(phones, phone)
	}

	if len(phones) < 2 {
		found := lo.Map(phones, func(p domain.Phone, _ int) string { return p.Model })
		return fmt.Sprintf("Could not find all requested phones. Found: %v", found), nil
	}

	comparison := phoneComparison{
		Phones: lo.Map(phones, func(p domain.Phone, _ int) comparisonEntry {
			return comparisonEntry{
				Brand:         p.Brand,
				Model:         p.Model,
				Price:         p.Price,
				Camera:        p.Specs.Camera,
				BatteryMah:    p.Specs.BatteryMah,
				FastChargingW: p.Specs.FastChargingW,
				Processor:     p.Specs.Processor,
				RAMGb:         p.Specs.RAMGb,
				StorageGb:     p.Specs.StorageGb,
				DisplayInches: p.Specs.DisplayInches,
				RefreshRateHz: p.Specs.RefreshRateHz,
				WeightG:       p.Specs.WeightG,
				Features:      p.Features,
				Pros:          p.Pros,
				Cons:          p.Cons,
			}
		}),
	}

	data, err := json.MarshalIndent(comparison, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering comparison: %w", err)
	}
	return string(data), nil
}
