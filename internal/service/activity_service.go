package service

import (
	"context"
	"time"

	"community-mod/internal/repository/mysql"

	"github.com/rs/zerolog/log"
)

// ActivityPolicy 活跃度阈值，来自配置而不是散落的魔法数字
type ActivityPolicy struct {
	MinMembers int64
	MinPosts   int64
	MinPercent int64
}

// ActivityService 判断社区当天是否"活跃"：样本量不足（在籍成员 < MinMembers
// 或当天发帖 < MinPosts）直接判否，否则看去重发帖人占比是否超过 MinPercent。
// 任何读失败都按不活跃处理，宁可少波及也不在出错时扩大封禁。
type ActivityService struct {
	samples *mysql.ActivitySampleRepository
	members *mysql.MemberRepository
	policy  ActivityPolicy
}

func NewActivityService(samples *mysql.ActivitySampleRepository, members *mysql.MemberRepository, policy ActivityPolicy) *ActivityService {
	return &ActivityService{samples: samples, members: members, policy: policy}
}

// Day UTC 日期键，采样与评估两侧必须一致
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func (s *ActivityService) IsActive(ctx context.Context, communityID uint64) bool {
	total, err := s.members.CountActive(ctx, communityID)
	if err != nil {
		log.Warn().Err(err).Uint64("community", communityID).Msg("activity: member count failed")
		return false
	}
	if total < s.policy.MinMembers {
		return false
	}

	sample, err := s.samples.SampleFor(ctx, communityID, Day(time.Now()))
	if err != nil {
		// 当天还没有样本行也走这里：没有信号就不算活跃
		return false
	}
	if sample.PostCount < s.policy.MinPosts {
		return false
	}

	activePercentage := sample.PosterCount * 100 / total
	return activePercentage > s.policy.MinPercent
}
