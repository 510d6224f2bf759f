package mysql

import (
	"context"
	"time"

	"community-mod/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, postID, communityID uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).
		Where("id = ? AND community_id = ?", postID, communityID).
		First(&post).Error
	return &post, err
}

// Publish pending -> published，条件更新兜底并发：0 行代表前置状态已失效
func (r *PostRepository) Publish(ctx context.Context, postID, communityID, actorID uint64) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Post{}).
			Where("id = ? AND community_id = ? AND state = ?", postID, communityID, model.PostPending).
			Update("state", model.PostPublished)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return insertOutbox(tx, model.EventPostApproved, communityID, actorID, postID, nil)
	})
	return affected, err
}

// DeletePending pending 帖未曝光，直接物理删除；event 区分驳回与作者自删
func (r *PostRepository) DeletePending(ctx context.Context, postID, communityID, actorID uint64, event string) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND community_id = ? AND state = ?", postID, communityID, model.PostPending).
			Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return insertOutbox(tx, event, communityID, actorID, postID, map[string]any{"mode": "hard"})
	})
	return affected, err
}

// SetVisibility published <-> hidden 之间的条件流转
func (r *PostRepository) SetVisibility(ctx context.Context, postID, communityID uint64, from, to model.PostState) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND community_id = ? AND state = ?", postID, communityID, from).
		Update("state", to)
	return res.RowsAffected, res.Error
}

// SoftDelete 已发布（含隐藏）帖保留行，仅打时间戳进入终态
func (r *PostRepository) SoftDelete(ctx context.Context, postID, communityID, actorID uint64, now time.Time) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Post{}).
			Where("id = ? AND community_id = ? AND state IN ?", postID, communityID,
				[]model.PostState{model.PostPublished, model.PostHidden}).
			Updates(map[string]any{"state": model.PostDeleted, "deleted_at": now})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return insertOutbox(tx, model.EventPostDeleted, communityID, actorID, postID, map[string]any{"mode": "soft"})
	})
	return affected, err
}
