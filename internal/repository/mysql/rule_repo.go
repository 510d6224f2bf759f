package mysql

import (
	"context"
	"errors"

	"community-mod/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDuplicateTitle = errors.New("duplicate rule title")
	ErrRuleMissing    = errors.New("rule missing")
)

type RuleRepository struct {
	DB *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{DB: db}
}

// Create 事务内查重并取当前最大序号，order = max+1；唯一索引兜底标题竞争。
// 取 MAX 的读必须带锁，否则两个并发创建会读到同一个 max 并写出重复序号。
func (r *RuleRepository) Create(ctx context.Context, rule *model.Rule) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Rule{}).
			Where("community_id = ? AND title = ?", rule.CommunityID, rule.Title).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateTitle
		}

		var maxOrder int
		if err := tx.Model(&model.Rule{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("community_id = ?", rule.CommunityID).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		rule.Order = maxOrder + 1

		if err := tx.Create(rule).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTitle
			}
			return err
		}
		return nil
	})
}

func (r *RuleRepository) FindByID(ctx context.Context, ruleID, communityID uint64) (*model.Rule, error) {
	var rule model.Rule
	err := r.DB.WithContext(ctx).
		Where("id = ? AND community_id = ?", ruleID, communityID).
		First(&rule).Error
	return &rule, err
}

func (r *RuleRepository) ListByCommunity(ctx context.Context, communityID uint64) ([]model.Rule, error) {
	var list []model.Rule
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("sort_order ASC").
		Find(&list).Error
	return list, err
}

// Delete 不重排剩余规则，序号允许出现空洞
func (r *RuleRepository) Delete(ctx context.Context, ruleID, communityID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND community_id = ?", ruleID, communityID).
		Delete(&model.Rule{})
	return res.RowsAffected, res.Error
}

// ReorderItem 重排条目，title 允许随重排一起改
type ReorderItem struct {
	ID    uint64
	Title string
	Order int
}

// Reorder 整批更新放在一个事务里，任何一条失败整体回滚。
// 先校验条目都属于该社区再写，避免把"无变化"误判成缺失。
func (r *RuleRepository) Reorder(ctx context.Context, communityID uint64, items []ReorderItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint64, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		var n int64
		if err := tx.Model(&model.Rule{}).
			Where("community_id = ? AND id IN ?", communityID, ids).
			Count(&n).Error; err != nil {
			return err
		}
		if n != int64(len(items)) {
			return ErrRuleMissing
		}

		for _, it := range items {
			res := tx.Model(&model.Rule{}).
				Where("id = ? AND community_id = ?", it.ID, communityID).
				Updates(map[string]any{"title": it.Title, "sort_order": it.Order})
			if res.Error != nil {
				if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
					return ErrDuplicateTitle
				}
				return res.Error
			}
		}
		return nil
	})
}
