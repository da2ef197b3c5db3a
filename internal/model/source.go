package model

// Source 上传的来源文档，原文件保存在对象存储中
// swagger:model Source
type Source struct {
	UUIDBase
	UserID      uint   `gorm:"index;not null" json:"userId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	ObjectKey   string `gorm:"size:255" json:"objectKey"`
	URL         string `gorm:"size:512" json:"url"`
	ContentType string `gorm:"size:128" json:"contentType"`
	ChunkCount  int    `json:"chunkCount"`
}

func (Source) TableName() string {
	return "sources"
}
