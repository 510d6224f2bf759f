package mysql

import (
	"context"
	"time"

	"community-mod/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivitySampleRepository struct {
	DB *gorm.DB
}

func NewActivitySampleRepository(db *gorm.DB) *ActivitySampleRepository {
	return &ActivitySampleRepository{DB: db}
}

// SampleFor 读某社区某天的聚合行，评估侧只读
func (r *ActivitySampleRepository) SampleFor(ctx context.Context, communityID uint64, day string) (*model.CommunityActivitySample, error) {
	var sample model.CommunityActivitySample
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND day = ?", communityID, day).
		First(&sample).Error
	return &sample, err
}

// UpsertDay 从 posts 表重算 [start, end) 窗口内的发帖数与去重发帖人数并落盘
func (r *ActivitySampleRepository) UpsertDay(ctx context.Context, communityID uint64, day string, start, end time.Time) error {
	var postCount int64
	if err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("community_id = ? AND created_at >= ? AND created_at < ?", communityID, start, end).
		Count(&postCount).Error; err != nil {
		return err
	}

	var posterCount int64
	if err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("community_id = ? AND created_at >= ? AND created_at < ?", communityID, start, end).
		Distinct("member_id").
		Count(&posterCount).Error; err != nil {
		return err
	}

	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"post_count", "poster_count", "updated_at"}),
	}).Create(&model.CommunityActivitySample{
		CommunityID: communityID,
		Day:         day,
		PostCount:   postCount,
		PosterCount: posterCount,
	}).Error
}
