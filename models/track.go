package models

import (
	"time"
)

// Track is a product family grouping related plans on the pricing page
type Track struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Label    string `gorm:"size:255;not null" json:"label"`
	Color    string `gorm:"size:255" json:"color"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Subtitle string `gorm:"type:text" json:"subtitle"`
	Order    int    `gorm:"column:display_order;not null;default:0;index:idx_tracks_order" json:"order"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Plans []Plan `gorm:"foreignKey:TrackID" json:"plans,omitempty"`
}

func (Track) TableName() string {
	return "tracks"
}

// TrackFilter represents filter criteria for track queries
type TrackFilter struct {
	ID *uint
}
