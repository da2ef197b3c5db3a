package model

import (
	"database/sql/driver"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Embedding 包装 pgvector.Vector，非 PostgreSQL 方言下退化为文本列
type Embedding struct {
	pgvector.Vector
}

func NewEmbedding(v []float32) Embedding {
	return Embedding{Vector: pgvector.NewVector(v)}
}

// GormDataType 让 gorm 把向量当作普通列而不是关联
func (Embedding) GormDataType() string {
	return "vector"
}

func (Embedding) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "vector"
	case "mysql":
		return "longtext"
	default:
		return "text"
	}
}

func (e *Embedding) Scan(src interface{}) error {
	if src == nil {
		e.Vector = pgvector.Vector{}
		return nil
	}
	return e.Vector.Scan(src)
}

// Value 空向量写入 NULL
func (e Embedding) Value() (driver.Value, error) {
	if len(e.Vector.Slice()) == 0 {
		return nil, nil
	}
	return e.Vector.Value()
}

// ContentChunk 来源文档的切片，入库后不再修改
// swagger:model ContentChunk
type ContentChunk struct {
	UUIDBase
	SourceID   string    `gorm:"type:varchar(36);index;not null" json:"sourceId"`
	ChunkIndex int       `gorm:"not null" json:"chunkIndex"`
	PageNumber int       `json:"pageNumber"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Embedding  Embedding `json:"-" swaggerignore:"true"`
}

func (ContentChunk) TableName() string {
	return "content_chunks"
}

// ChunkMatch 相似度检索结果
type ChunkMatch struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	PageNumber int     `json:"pageNumber"`
	Similarity float64 `json:"similarity"`
}
