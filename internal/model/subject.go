package model

// swagger:model Subject
type Subject struct {
	BaseModel
	UserID uint   `gorm:"index;not null" json:"userId"`
	Name   string `gorm:"size:128;not null" json:"name"`
}

// swagger:model Topic
type Topic struct {
	BaseModel
	UserID    uint   `gorm:"index;not null" json:"userId"`
	SubjectID *uint  `gorm:"index" json:"subjectId,omitempty"`
	Name      string `gorm:"size:128;not null" json:"name"`
}
