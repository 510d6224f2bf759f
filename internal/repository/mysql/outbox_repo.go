package mysql

import (
	"context"
	"encoding/json"
	"time"

	"community-mod/internal/model"

	"gorm.io/gorm"
)

// 失败事件的重投上限，到达后视为死信，等人工介入
const outboxMaxRetry = 5

type OutboxRepository struct {
	DB *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

// insertOutbox 与业务变更同事务写入事件行
func insertOutbox(tx *gorm.DB, event string, communityID, actorID, subjectID uint64, extra map[string]any) error {
	body := map[string]any{
		"event":      event,
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"community":  communityID,
		"actor":      actorID,
		"subject":    subjectID,
	}
	for k, v := range extra {
		body[k] = v
	}
	payload, _ := json.Marshal(body)
	return tx.Create(&model.ModerationOutbox{
		EventType:   event,
		CommunityID: communityID,
		ActorID:     actorID,
		SubjectID:   subjectID,
		Payload:     string(payload),
		Status:      0,
	}).Error
}

// ListPending 按批量大小取待投递事件；投递失败的在重试上限内会被再次取出
func (r *OutboxRepository) ListPending(ctx context.Context, batchSize int) ([]model.ModerationOutbox, error) {
	var list []model.ModerationOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0 OR (status = 2 AND retry < ?)", outboxMaxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).
		Where("id = ?", id).
		Update("status", 1).Error
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}
