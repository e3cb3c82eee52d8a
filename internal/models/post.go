package models

import (
	"time"
)

// Post is an authored text entry, optionally filed under a group and
// optionally carrying an uploaded image.
//
// PubDate and AuthorID are write-once: they are stamped at creation and the
// gorm field permissions forbid updates. Deleting the author cascades to the
// post; deleting the group detaches it (group_id set to NULL).
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	PubDate   time.Time `gorm:"not null;autoCreateTime;index;<-:create" json:"pub_date"`
	AuthorID  uint      `gorm:"not null;index;<-:create" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
}
