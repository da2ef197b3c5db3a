package service

import (
	"context"
	"strconv"
	"strings"

	"study_core_backend/internal/model"
	"study_core_backend/internal/util"
	"study_core_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// MaxBatchSize 批量写入单次最多处理的题目数
const MaxBatchSize = 100

// QuestionInput 新建或修改题目的请求体，修改时 ID 必填
type QuestionInput struct {
	ID        uint                  `json:"id"`
	UnitID    *uint                 `json:"unitId"`
	SubjectID *uint                 `json:"subjectId"`
	TopicIDs  []uint                `json:"topicIds"`
	Type      model.QuestionType    `json:"type" binding:"required"`
	Content   model.QuestionContent `json:"content"`
}

type QuestionService struct {
	ContentRepo ContentRepository
}

func NewQuestionService(contentRepo ContentRepository) *QuestionService {
	return &QuestionService{ContentRepo: contentRepo}
}

// GetQuestion 只能查看自己的题目
func (s *QuestionService) GetQuestion(ctx context.Context, userID, id uint) (*model.Question, error) {
	q, err := s.ContentRepo.FindQuestionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.UserID != userID {
		return nil, util.NewNotFoundError("question", id)
	}
	return q, nil
}

func (s *QuestionService) GetUnit(ctx context.Context, userID, id uint) (*model.Unit, error) {
	u, err := s.ContentRepo.FindUnitByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.UserID != userID {
		return nil, util.NewNotFoundError("unit", id)
	}
	return u, nil
}

func (s *QuestionService) CreateQuestions(ctx context.Context, userID uint, inputs []QuestionInput) ([]model.Question, error) {
	if err := validateBatch(inputs, false); err != nil {
		return nil, err
	}

	questions := make([]model.Question, len(inputs))
	for i, in := range inputs {
		questions[i] = in.toModel(userID)
	}
	if err := s.ContentRepo.CreateQuestions(ctx, questions); err != nil {
		return nil, err
	}

	logger.Log.Info("Questions created", zap.Uint("userID", userID), zap.Int("count", len(questions)))
	return questions, nil
}

// UpdateQuestions 整批在一个事务里更新，任何一道不属于该用户都会整体失败
func (s *QuestionService) UpdateQuestions(ctx context.Context, userID uint, inputs []QuestionInput) ([]model.Question, error) {
	if err := validateBatch(inputs, true); err != nil {
		return nil, err
	}

	questions := make([]model.Question, len(inputs))
	for i, in := range inputs {
		questions[i] = in.toModel(userID)
	}
	if err := s.ContentRepo.UpdateQuestions(ctx, userID, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *QuestionService) DeleteQuestions(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, util.NewValidationError("ids", util.ErrEmptyIDs.Error(), util.ErrEmptyIDs)
	}
	if len(ids) > MaxBatchSize {
		return 0, util.NewValidationError("ids", "at most "+strconv.Itoa(MaxBatchSize)+" per batch", util.ErrLimitExceeded)
	}
	deleted, err := s.ContentRepo.DeleteQuestions(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	logger.Log.Info("Questions deleted", zap.Uint("userID", userID), zap.Int64("count", deleted))
	return deleted, nil
}

func (in QuestionInput) toModel(userID uint) model.Question {
	q := model.Question{
		UserID:    userID,
		UnitID:    in.UnitID,
		SubjectID: in.SubjectID,
		Type:      in.Type,
		Content:   datatypes.NewJSONType(in.Content),
	}
	q.ID = in.ID
	if in.TopicIDs != nil {
		q.Topics = make([]model.Topic, len(in.TopicIDs))
		for i, id := range in.TopicIDs {
			q.Topics[i].ID = id
		}
	}
	return q
}

func validateBatch(inputs []QuestionInput, requireID bool) error {
	if len(inputs) == 0 {
		return util.NewValidationError("questions", "must not be empty", nil)
	}
	if len(inputs) > MaxBatchSize {
		return util.NewValidationError("questions", "at most "+strconv.Itoa(MaxBatchSize)+" per batch", util.ErrLimitExceeded)
	}
	for i, in := range inputs {
		field := "questions[" + strconv.Itoa(i) + "]"
		if requireID && in.ID == 0 {
			return util.NewValidationError(field+".id", "is required", nil)
		}
		if !in.Type.Valid() {
			return util.NewValidationError(field+".type", "unknown question type "+strconv.Quote(string(in.Type)), nil)
		}
		if strings.TrimSpace(in.Content.Question) == "" {
			return util.NewValidationError(field+".content.question", "is required", nil)
		}
		if in.Type == model.QuestionMultipleChoice && len(in.Content.Choices) < 2 {
			return util.NewValidationError(field+".content.choices", "multiple-choice needs at least 2 choices", nil)
		}
		if in.Type == model.QuestionCodeSnippet && strings.TrimSpace(in.Content.CodeSnippet) == "" {
			return util.NewValidationError(field+".content.codeSnippet", "is required for code-snippet", nil)
		}
	}
	return nil
}
