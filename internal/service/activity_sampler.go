package service

import (
	"context"
	"time"

	"community-mod/internal/repository/mysql"

	"github.com/rs/zerolog/log"
)

// ActivitySampler 周期重算每个社区当天的发帖聚合，评估侧只读这张表
type ActivitySampler struct {
	communities *mysql.CommunityRepository
	samples     *mysql.ActivitySampleRepository
	interval    time.Duration
}

func NewActivitySampler(communities *mysql.CommunityRepository, samples *mysql.ActivitySampleRepository, interval time.Duration) *ActivitySampler {
	return &ActivitySampler{
		communities: communities,
		samples:     samples,
		interval:    interval,
	}
}

func (s *ActivitySampler) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sampleOnce(ctx)
		}
	}
}

func (s *ActivitySampler) sampleOnce(ctx context.Context) {
	ids, err := s.communities.ListIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sampler: list communities failed")
		return
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	day := Day(now)

	for _, id := range ids {
		if err := s.samples.UpsertDay(ctx, id, day, start, end); err != nil {
			log.Warn().Err(err).Uint64("community", id).Msg("sampler: upsert failed")
		}
	}
}
