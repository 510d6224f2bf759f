package service

import (
	"context"
	"errors"

	"community-mod/internal/model"
	"community-mod/internal/pkg/apperr"
	"community-mod/internal/repository/mysql"

	"gorm.io/gorm"
)

// RuleService 社区规则：标题社区内唯一，序号顺序分配；
// 删除不重排，重排整批原子生效。
type RuleService struct {
	rules       *mysql.RuleRepository
	communities *mysql.CommunityRepository
}

func NewRuleService(rules *mysql.RuleRepository, communities *mysql.CommunityRepository) *RuleService {
	return &RuleService{rules: rules, communities: communities}
}

func (s *RuleService) Create(ctx context.Context, m *model.Member, title, body string) (*model.Rule, error) {
	if err := RequireRole(m, model.RoleModerator); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, apperr.ValidationFields("invalid params", map[string]string{"title": "required"})
	}
	if _, err := s.communities.FindByID(ctx, m.CommunityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("community not found")
		}
		return nil, apperr.Internal(err)
	}

	rule := &model.Rule{
		CommunityID: m.CommunityID,
		Title:       title,
		Body:        body,
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		if errors.Is(err, mysql.ErrDuplicateTitle) {
			return nil, apperr.Conflict("rule title already exists")
		}
		return nil, apperr.Internal(err)
	}
	return rule, nil
}

func (s *RuleService) Delete(ctx context.Context, m *model.Member, ruleID uint64) error {
	if err := RequireRole(m, model.RoleModerator); err != nil {
		return err
	}
	affected, err := s.rules.Delete(ctx, ruleID, m.CommunityID)
	if err != nil {
		return apperr.Internal(err)
	}
	if affected == 0 {
		return apperr.NotFound("rule not found")
	}
	return nil
}

// Reorder 提交的标题两两不能相同；任何一条更新失败整体回滚，
// 调用方看到的只会是"全部生效"或"全部失败"
func (s *RuleService) Reorder(ctx context.Context, m *model.Member, items []mysql.ReorderItem) ([]model.Rule, error) {
	if err := RequireRole(m, model.RoleModerator); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.Validation("empty rule list")
	}

	seenID := make(map[uint64]struct{}, len(items))
	seenTitle := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == 0 || it.Title == "" || it.Order <= 0 {
			return nil, apperr.Validation("invalid rule entry")
		}
		if _, ok := seenID[it.ID]; ok {
			return nil, apperr.Validation("duplicate rule id")
		}
		seenID[it.ID] = struct{}{}
		if _, ok := seenTitle[it.Title]; ok {
			return nil, apperr.Conflict("duplicate rule titles")
		}
		seenTitle[it.Title] = struct{}{}
	}

	if err := s.rules.Reorder(ctx, m.CommunityID, items); err != nil {
		switch {
		case errors.Is(err, mysql.ErrRuleMissing):
			return nil, apperr.NotFound("rule not found in community")
		case errors.Is(err, mysql.ErrDuplicateTitle):
			return nil, apperr.Conflict("rule title already exists")
		default:
			return nil, apperr.Internal(err)
		}
	}
	list, err := s.rules.ListByCommunity(ctx, m.CommunityID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *RuleService) List(ctx context.Context, communityID uint64) ([]model.Rule, error) {
	list, err := s.rules.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}
