package models

import "time"

// Document is the storage row behind every collection the document
// store serves. Data holds the serialized JSON document.
type Document struct {
	Collection string    `gorm:"primaryKey;type:varchar(255)" json:"collection"`
	DocID      string    `gorm:"primaryKey;type:varchar(64)" json:"doc_id"`
	Data       string    `gorm:"type:text;not null" json:"data"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
