package models

import "time"

const DefaultTheme = "default"

type Portfolio struct {
	ID           string
	UserID       string
	Title        string
	Description  *string
	PersonalInfo map[string]any
	SocialLinks  map[string]any
	Skills       []any
	Theme        string
	IsPublished  bool
	Slug         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Portfolio) OwnerID() string {
	return p.UserID
}

func (p Portfolio) Published() bool {
	return p.IsPublished
}

// PortfolioPatch carries only the fields present in an update request.
type PortfolioPatch struct {
	Title        Field[string]
	Description  Field[string]
	PersonalInfo Field[map[string]any]
	SocialLinks  Field[map[string]any]
	Skills       Field[[]any]
	Theme        Field[string]
	IsPublished  Field[bool]
	Slug         Field[string]
}

// PublicPortfolio is a published portfolio with its visible children.
type PublicPortfolio struct {
	Portfolio Portfolio
	Owner     PublicProfile
	Sections  []Section
	Projects  []Project
}
