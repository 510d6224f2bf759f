package service

import (
	"context"
	"time"

	"community-mod/internal/model"
	"community-mod/internal/pkg"
	"community-mod/internal/repository/mysql"

	"github.com/rs/zerolog/log"
)

type Sender func(ctx context.Context, ob *model.ModerationOutbox) error

// OutboxRelayer 周期性地把审核事件从 outbox 表搬到下游；
// 投递失败只标记重试，后续轮次重投，到达上限转死信。业务事务早已提交，不会回滚
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(repo *mysql.OutboxRepository, batchSize int, interval time.Duration, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: batchSize,
		interval:  interval,
		sender:    sender,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("outbox: query failed")
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			log.Warn().Err(err).Uint64("id", ob.ID).Str("event", ob.EventType).Msg("outbox: send failed")
			_ = r.repo.MarkFailed(ctx, ob.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ob.ID)
	}
}

// KafkaSender 正式投递通道
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ModerationOutbox) error {
		return producer.Send(ctx, ob.CommunityID, ob.EventType, []byte(ob.Payload))
	}
}

// LogSender 没配 kafka 时的降级投递，只打日志
func LogSender(ctx context.Context, ob *model.ModerationOutbox) error {
	log.Info().
		Str("event", ob.EventType).
		Uint64("community", ob.CommunityID).
		Uint64("subject", ob.SubjectID).
		RawJSON("payload", []byte(ob.Payload)).
		Msg("outbox: send")
	return nil
}
