package postgres

import (
	"context"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/uptrace/bun"
)

// A profile is a row of the individual profile directory owned by the
// profile service.
type profile struct {
	bun.BaseModel `bun:"table:profiles,alias:pr"`

	ID         string `bun:",pk,type:uuid"`
	FullName   string `bun:",notnull"`
	PictureURL string
	Headline   string
}

// A company is a row of the organization directory owned by the company
// service.
type company struct {
	bun.BaseModel `bun:"table:companies,alias:co"`

	ID          string `bun:",pk,type:uuid"`
	Name        string `bun:",notnull"`
	LogoURL     string
	Description string
}

// Individuals looks up individual authors in the profiles table.
type Individuals struct {
	pg *Postgres
}

// Organizations looks up organization authors in the companies table.
type Organizations struct {
	pg *Postgres
}

var (
	_ engagement.Directory = (*Individuals)(nil)
	_ engagement.Directory = (*Organizations)(nil)
)

// Individuals returns the individual directory.
func (pg *Postgres) Individuals() *Individuals {
	return &Individuals{pg: pg}
}

// Organizations returns the organization directory.
func (pg *Postgres) Organizations() *Organizations {
	return &Organizations{pg: pg}
}

// Lookup returns the display attributes of a profile.
func (d *Individuals) Lookup(ctx context.Context, id string) (engagement.Author, error) {
	m := new(profile)
	if err := d.pg.bun.NewSelect().Model(m).Where("pr.id = ?", id).Scan(ctx); err != nil {
		return engagement.Author{}, scanned(err)
	}
	return engagement.Author{
		Name:    m.FullName,
		Picture: m.PictureURL,
		Bio:     m.Headline,
	}, nil
}

// Lookup returns the display attributes of a company.
func (d *Organizations) Lookup(ctx context.Context, id string) (engagement.Author, error) {
	m := new(company)
	if err := d.pg.bun.NewSelect().Model(m).Where("co.id = ?", id).Scan(ctx); err != nil {
		return engagement.Author{}, scanned(err)
	}
	return engagement.Author{
		Name:    m.Name,
		Picture: m.LogoURL,
		Bio:     m.Description,
	}, nil
}
