package models

import "time"

type Project struct {
	ID           string
	PortfolioID  string
	Title        string
	Description  string
	Technologies []string
	ProjectURL   *string
	GithubURL    *string
	Image        *string
	Featured     bool
	StartDate    *time.Time
	EndDate      *time.Time
	Order        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ProjectPatch struct {
	Title        Field[string]
	Description  Field[string]
	Technologies Field[[]string]
	ProjectURL   Field[string]
	GithubURL    Field[string]
	Image        Field[string]
	Featured     Field[bool]
	StartDate    Field[string]
	EndDate      Field[string]
	Order        Field[int]
}

// DateLayout is the wire and storage format of project dates.
const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
