package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

type phoneDetails struct {
	catalog PhoneCatalog
}

func NewPhoneDetails(catalog PhoneCatalog) *phoneDetails {
	return &phoneDetails{catalog: catalog}
}

func (p *phoneDetails) Name() string {
	return "get_phone_details"
}

func (p *phoneDetails) Description() string {
	return "Get detailed specifications of a specific phone."
}

func (p *phoneDetails) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"phone_model": {
				Type:        jsonschema.String,
				Description: "Phone model name or brand + model",
			},
		},
		Required: []string{"phone_model"},
	}
}

type phoneDetailsArgs struct {
	PhoneModel string `json:"phone_model"`
}

type phoneDetailsResult struct {
	Brand    string            `json:"brand"`
	Model    string            `json:"model"`
	Price    int               `json:"price"`
	Specs    domain.PhoneSpecs `json:"specs"`
	Features []string          `json:"features"`
	Pros     []string          `json:"pros"`
	Cons     []string          `json:"cons"`
}

func (p *phoneDetails) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var a phoneDetailsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return "", fmt.Errorf("parsing details arguments: %w", err)
	}

	phone, err := p.catalog.ByModel(a.PhoneModel)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Sprintf("Phone '%s' not found in database.", a.PhoneModel), nil
		}
		return "", fmt.Errorf("looking up phone %q: %w", a.PhoneModel, err)
	}

	details := phoneDetailsResult{
		Brand:    phone.Brand,
		Model:    phone.Model,
		Price:    phone.Price,
		Specs:    phone.Specs,
		Features: phone.Features,
		Pros:     phone.Pros,
		Cons:     phone.Cons,
	}

	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering details: %w", err)
	}
	return string(data), nil
}
