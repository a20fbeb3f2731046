package models

import "time"

// Post is a unit of content created by a user. AuthorID and CreatedAt are set at
// creation and never change afterwards; edits touch text, group and image only.
// GroupID is nullable: removing a group leaves its posts in place with no group.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	ImageURL  string    `gorm:"size:512" json:"image_url"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Author    User      `json:"author"`
	Group     *Group    `json:"group,omitempty"`
	Comments  []Comment `json:"comments,omitempty"`
}
