package models

// Group is a topic that posts may be filed under. Groups are created out of
// band (seeding, admin tooling); no page handler manages them.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null;size:200" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Slug        string `gorm:"uniqueIndex;not null;size:64" json:"slug"`
}
