package tools

import (
	"github.com/dskvich/phone-shop-assistant/pkg/catalog"
	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

type PhoneCatalog interface {
	ByModel(model string) (domain.Phone, error)
	Search(c catalog.SearchCriteria) []domain.Phone
	SortPhones(phones []domain.Phone, sortBy string) []domain.Phone
}

type TermGlossary interface {
	TermByName(name string) (domain.TechTerm, error)
	TermNames() []string
	ExamplesForTerm(term string, max int) []domain.Phone
}
