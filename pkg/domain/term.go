package domain

// TechTerm is a read-only entry of the technical glossary shipped with the
// catalog. Lookups match either Term or FullName, case-insensitively.
type TechTerm struct {
	Term        string   `json:"term"`
	FullName    string   `json:"full_name"`
	Explanation string   `json:"explanation"`
	Benefits    []string `json:"benefits"`
	UseCase     string   `json:"use_case"`
}
