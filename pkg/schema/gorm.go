package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
// Referenced tables come before the tables that reference them.
func AllModels() []any {
	return []any{
		&Movie{},
		&Genre{},
		&MovieGenre{},
		&Actor{},
		&MovieActor{},
		&OTTProvider{},
		&MovieOTT{},
		&RankingSnapshot{},
		&WeeklyRankFact{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// BeforeSave keeps TitleKey and SearchKey in sync with the texts.
func (m *Movie) BeforeSave(*gorm.DB) error {
	m.TitleKey = TitleKey(m.Title)
	m.SearchKey = m.SearchText()
	return nil
}

// SearchText is the value SearchKey has for the current attributes.
func (m *Movie) SearchText() string {
	return searchKey(&m.Title, m.OriginalTitle, m.Director)
}

func (g *Genre) BeforeSave(*gorm.DB) error {
	g.SearchKey = Squash(g.Name)
	return nil
}

func (a *Actor) BeforeSave(*gorm.DB) error {
	a.SearchKey = Squash(a.Name)
	return nil
}
