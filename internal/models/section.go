package models

import (
	"strings"
	"time"
)

type SectionType string

const (
	SectionHero     SectionType = "hero"
	SectionAbout    SectionType = "about"
	SectionProjects SectionType = "projects"
	SectionContact  SectionType = "contact"
	SectionCustom   SectionType = "custom"
)

// SectionTypes is the closed set of section types, in display order.
var SectionTypes = []SectionType{SectionHero, SectionAbout, SectionProjects, SectionContact, SectionCustom}

func (t SectionType) Valid() bool {
	for _, known := range SectionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SectionTypeNames lists the allowed types for error messages.
func SectionTypeNames() string {
	names := make([]string, len(SectionTypes))
	for i, t := range SectionTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

type Section struct {
	ID          string
	PortfolioID string
	Type        SectionType
	Title       *string
	Content     map[string]any
	Order       int
	IsVisible   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SectionPatch struct {
	Type      Field[string]
	Title     Field[string]
	Content   Field[map[string]any]
	Order     Field[int]
	IsVisible Field[bool]
}
