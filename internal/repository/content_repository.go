package repository

import (
	"context"
	"time"

	"study_core_backend/internal/model"
	"study_core_backend/internal/util"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// QuestionQuery 题目列表查询条件，空集合表示不过滤
type QuestionQuery struct {
	UserID     uint
	ExcludeIDs []uint
	SubjectIDs []uint
	TopicIDs   []uint
	Now        time.Time
	Limit      int
}

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

// FindQuestionByID 按 id 查询题目
func (r *ContentRepository) FindQuestionByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).Preload("Topics").First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("question", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find question %d", id)
	}
	return &q, nil
}

// FindUnitByID 按 id 查询单元，不加载题目
func (r *ContentRepository) FindUnitByID(ctx context.Context, id uint) (*model.Unit, error) {
	var u model.Unit
	err := r.DB.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("unit", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find unit %d", id)
	}
	return &u, nil
}

// scoped 拼装用户、排除集合和科目/知识点过滤条件
func (r *ContentRepository) scoped(ctx context.Context, q QuestionQuery) *gorm.DB {
	tx := r.DB.WithContext(ctx).Model(&model.Question{}).Where("questions.user_id = ?", q.UserID)
	if len(q.ExcludeIDs) > 0 {
		tx = tx.Where("questions.id NOT IN ?", q.ExcludeIDs)
	}
	if len(q.SubjectIDs) > 0 {
		tx = tx.Where("questions.subject_id IN ?", q.SubjectIDs)
	}
	if len(q.TopicIDs) > 0 {
		sub := r.DB.Table("question_topics").Select("question_id").Where("topic_id IN ?", q.TopicIDs)
		tx = tx.Where("questions.id IN (?)", sub)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx.Preload("Topics")
}

// FindDueQuestions 已复习且到期的题目，最早到期的排在前面
func (r *ContentRepository) FindDueQuestions(ctx context.Context, q QuestionQuery) ([]model.Question, error) {
	var questions []model.Question
	err := r.scoped(ctx, q).
		Where("questions.last_reviewed IS NOT NULL AND questions.next_review_date <= ?", q.Now).
		Order("questions.next_review_date ASC, questions.id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, errors.Wrap(err, "find due questions")
	}
	return questions, nil
}

// FindUnseenQuestions 从未复习过的题目，按创建时间先进先出
func (r *ContentRepository) FindUnseenQuestions(ctx context.Context, q QuestionQuery) ([]model.Question, error) {
	var questions []model.Question
	err := r.scoped(ctx, q).
		Where("questions.last_reviewed IS NULL").
		Order("questions.created_at ASC, questions.id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, errors.Wrap(err, "find unseen questions")
	}
	return questions, nil
}

// FindUpcomingQuestions 已复习但尚未到期的题目，用于冲刺模式提前复习
func (r *ContentRepository) FindUpcomingQuestions(ctx context.Context, q QuestionQuery) ([]model.Question, error) {
	var questions []model.Question
	err := r.scoped(ctx, q).
		Where("questions.last_reviewed IS NOT NULL AND questions.next_review_date > ?", q.Now).
		Order("questions.next_review_date ASC, questions.id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, errors.Wrap(err, "find upcoming questions")
	}
	return questions, nil
}

func (r *ContentRepository) CreateQuestions(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := verifyReferences(tx, questions[0].UserID, questions); err != nil {
			return err
		}
		// 知识点只建立关联，不回写知识点本身
		return errors.Wrap(tx.Omit("Topics.*").Create(&questions).Error, "create questions")
	})
}

// verifyReferences 题目引用的单元、科目和知识点必须属于同一用户
func verifyReferences(tx *gorm.DB, userID uint, questions []model.Question) error {
	var unitIDs, subjectIDs, topicIDs []uint
	for _, q := range questions {
		if q.UnitID != nil {
			unitIDs = append(unitIDs, *q.UnitID)
		}
		if q.SubjectID != nil {
			subjectIDs = append(subjectIDs, *q.SubjectID)
		}
		for _, t := range q.Topics {
			topicIDs = append(topicIDs, t.ID)
		}
	}

	checks := []struct {
		resource string
		model    interface{}
		ids      []uint
	}{
		{"unit", &model.Unit{}, unitIDs},
		{"subject", &model.Subject{}, subjectIDs},
		{"topic", &model.Topic{}, topicIDs},
	}
	for _, c := range checks {
		if len(c.ids) == 0 {
			continue
		}
		var owned []uint
		err := tx.Model(c.model).
			Where("id IN ? AND user_id = ?", c.ids, userID).
			Pluck("id", &owned).Error
		if err != nil {
			return errors.Wrapf(err, "verify %s ownership", c.resource)
		}
		ownedSet := make(map[uint]struct{}, len(owned))
		for _, id := range owned {
			ownedSet[id] = struct{}{}
		}
		for _, id := range c.ids {
			if _, ok := ownedSet[id]; !ok {
				return util.NewNotFoundError(c.resource, id)
			}
		}
	}
	return nil
}

// UpdateQuestions 批量更新题目内容，只允许修改属于 userID 的题目，复习状态不在此处修改
func (r *ContentRepository) UpdateQuestions(ctx context.Context, userID uint, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := verifyReferences(tx, userID, questions); err != nil {
			return err
		}
		for i := range questions {
			q := &questions[i]
			res := tx.Model(&model.Question{}).
				Where("id = ? AND user_id = ?", q.ID, userID).
				Select("type", "content", "subject_id", "unit_id").
				Updates(q)
			if res.Error != nil {
				return errors.Wrapf(res.Error, "update question %d", q.ID)
			}
			if res.RowsAffected == 0 {
				return util.NewNotFoundError("question", q.ID)
			}
			if q.Topics != nil {
				owned := model.Question{BaseModel: model.BaseModel{ID: q.ID}}
				if err := tx.Model(&owned).Association("Topics").Replace(q.Topics); err != nil {
					return errors.Wrapf(err, "replace topics of question %d", q.ID)
				}
			}
		}
		return nil
	})
}

// DeleteQuestions 批量删除，返回实际删除数量
func (r *ContentRepository) DeleteQuestions(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Delete(&model.Question{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "delete questions")
	}
	return res.RowsAffected, nil
}

// SaveReviewState 写入复习状态，唯一修改 last_reviewed/next_review_date 的入口
func (r *ContentRepository) SaveReviewState(ctx context.Context, q *model.Question) error {
	res := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("id = ? AND user_id = ?", q.ID, q.UserID).
		Updates(map[string]interface{}{
			"last_reviewed":    q.LastReviewed,
			"next_review_date": q.NextReviewDate,
			"ease_factor":      q.EaseFactor,
			"interval_days":    q.IntervalDays,
			"repetitions":      q.Repetitions,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "save review state of question %d", q.ID)
	}
	if res.RowsAffected == 0 {
		return util.NewNotFoundError("question", q.ID)
	}
	return nil
}
