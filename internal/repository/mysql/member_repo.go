package mysql

import (
	"context"
	"time"

	"community-mod/internal/model"

	"gorm.io/gorm"
)

type MemberRepository struct {
	DB *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{DB: db}
}

// FindActive 查 (community, user) 的在籍记录
func (r *MemberRepository) FindActive(ctx context.Context, communityID, userID uint64) (*model.Member, error) {
	var m model.Member
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ? AND leaved_at IS NULL", communityID, userID).
		First(&m).Error
	return &m, err
}

// FindActiveByID 按 member id 查在籍记录，社区必须匹配
func (r *MemberRepository) FindActiveByID(ctx context.Context, memberID, communityID uint64) (*model.Member, error) {
	var m model.Member
	err := r.DB.WithContext(ctx).
		Where("id = ? AND community_id = ? AND leaved_at IS NULL", memberID, communityID).
		First(&m).Error
	return &m, err
}

func (r *MemberRepository) CountActive(ctx context.Context, communityID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Member{}).
		Where("community_id = ? AND leaved_at IS NULL", communityID).
		Count(&n).Error
	return n, err
}

// UpdateRole 条件更新角色：当前角色必须在 from 集合内，0 行说明记录缺失或角色不符
func (r *MemberRepository) UpdateRole(ctx context.Context, memberID, communityID uint64, from []model.Role, to model.Role) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Member{}).
		Where("id = ? AND community_id = ? AND leaved_at IS NULL AND role IN ?", memberID, communityID, from).
		Update("role", to)
	return res.RowsAffected, res.Error
}

// Ban 单事务落库：先封目标成员，活跃社区再波及该用户的其他在籍成员关系，
// 最后写 outbox 事件。部分生效的状态对外不可见。
func (r *MemberRepository) Ban(ctx context.Context, target *model.Member, until time.Time, global bool, actorID uint64) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Member{}).
			Where("id = ? AND leaved_at IS NULL", target.ID).
			Updates(map[string]any{"restriction": model.RestrictionBan, "ban_until": until})
		if res.Error != nil {
			return res.Error
		}
		// 写入前成员恰好退出，按不存在处理
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		affected = res.RowsAffected

		if global {
			res = tx.Model(&model.Member{}).
				Where("user_id = ? AND id <> ? AND leaved_at IS NULL", target.UserID, target.ID).
				Updates(map[string]any{"restriction": model.RestrictionBan, "ban_until": until})
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}

		scope := "local"
		if global {
			scope = "global"
		}
		return insertOutbox(tx, model.EventMemberBanned, target.CommunityID, actorID, target.ID, map[string]any{
			"user":      target.UserID,
			"scope":     scope,
			"ban_until": until.UTC().Format(time.RFC3339),
		})
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
