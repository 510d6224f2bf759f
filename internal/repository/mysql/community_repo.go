package mysql

import (
	"context"
	"errors"
	"time"

	"community-mod/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{DB: db}
}

// Create 建社区并让创建者以 ADMIN 身份入驻，同一事务完成
func (r *CommunityRepository) Create(ctx context.Context, c *model.Community) (*model.Community, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(&model.Member{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        model.RoleAdmin,
		}).Error
	})
	return c, err
}

func (r *CommunityRepository) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) List(ctx context.Context, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// ListIDs 采样任务遍历用
func (r *CommunityRepository) ListIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Community{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// Join 幂等加入：已有在籍记录直接返回；退出过的用户重新入驻会产生新行，
// 保证 (user, community) 至多一条 leaved_at IS NULL 的记录
func (r *CommunityRepository) Join(ctx context.Context, communityID, userID uint64) (*model.Member, error) {
	var member model.Member
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("community_id = ? AND user_id = ? AND leaved_at IS NULL", communityID, userID).
			First(&member).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		member = model.Member{
			CommunityID: communityID,
			UserID:      userID,
			Role:        model.RoleMember,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Leave 软退出，行保留供封禁历史追溯
func (r *CommunityRepository) Leave(ctx context.Context, communityID, userID uint64, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Member{}).
		Where("community_id = ? AND user_id = ? AND leaved_at IS NULL", communityID, userID).
		Update("leaved_at", now)
	return res.RowsAffected, res.Error
}
