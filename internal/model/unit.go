package model

// Unit 学习单元，题目归属于单元
// swagger:model Unit
type Unit struct {
	BaseModel
	UserID    uint       `gorm:"index;not null" json:"userId"`
	SubjectID *uint      `gorm:"index" json:"subjectId,omitempty"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Questions []Question `gorm:"foreignKey:UnitID" json:"questions,omitempty"`
}

func (Unit) TableName() string {
	return "units"
}
