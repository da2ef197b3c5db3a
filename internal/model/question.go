package model

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionOpenEnded      QuestionType = "open-ended"
	QuestionCodeSnippet    QuestionType = "code-snippet"
	QuestionCloze          QuestionType = "cloze"
	QuestionGenericText    QuestionType = "generic-text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionOpenEnded, QuestionCodeSnippet, QuestionCloze, QuestionGenericText:
		return true
	}
	return false
}

// QuestionContent 题目内容信封，按 JSON 存储
type QuestionContent struct {
	Question       string   `json:"question"`
	Answer         string   `json:"answer"`
	Choices        []string `json:"choices,omitempty"`
	CodeSnippet    string   `json:"codeSnippet,omitempty"`
	ExpectedOutput string   `json:"expectedOutput,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
}

// Question 一道可复习的题目
// swagger:model Question
type Question struct {
	BaseModel
	UserID    uint                                `gorm:"index;not null" json:"userId"`
	UnitID    *uint                               `gorm:"index" json:"unitId,omitempty"`
	Type      QuestionType                        `gorm:"size:32;not null" json:"type"`
	Content   datatypes.JSONType[QuestionContent] `gorm:"not null" json:"content" swaggertype:"object"`
	SubjectID *uint                               `gorm:"index" json:"subjectId,omitempty"`
	Topics    []Topic                             `gorm:"many2many:question_topics;" json:"topics,omitempty"`

	// 复习状态，LastReviewed 为空表示从未复习过，此时 NextReviewDate 无意义
	LastReviewed   *time.Time `gorm:"index" json:"lastReviewed"`
	NextReviewDate *time.Time `gorm:"index" json:"nextReviewDate"`
	EaseFactor     float64    `gorm:"default:2.5" json:"easeFactor"`
	IntervalDays   int        `gorm:"default:0" json:"intervalDays"`
	Repetitions    int        `gorm:"default:0" json:"repetitions"`

	IsReviewAhead bool `gorm:"-" json:"isReviewAhead,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// IsDue 已复习过且到期
func (q *Question) IsDue(now time.Time) bool {
	return q.LastReviewed != nil && q.NextReviewDate != nil && !q.NextReviewDate.After(now)
}

// IsUnseen 从未复习过
func (q *Question) IsUnseen() bool {
	return q.LastReviewed == nil
}
