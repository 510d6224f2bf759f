package service

import (
	"context"
	"errors"
	"time"

	"community-mod/internal/model"
	"community-mod/internal/pkg/apperr"
	"community-mod/internal/repository/mysql"

	"gorm.io/gorm"
)

// MemberService 成员处罚与授权。封禁是否波及用户的其他社区由
// 发起社区当天的活跃度决定。
type MemberService struct {
	members   *mysql.MemberRepository
	activity  *ActivityService
	banWindow time.Duration
}

func NewMemberService(members *mysql.MemberRepository, activity *ActivityService, banWindow time.Duration) *MemberService {
	return &MemberService{members: members, activity: activity, banWindow: banWindow}
}

type BanResult struct {
	Scope    string    `json:"scope"` // local / global
	Affected int64     `json:"affected"`
	BanUntil time.Time `json:"ban_until"`
}

// Ban 需要管理角色。先评估活跃度（只读），再把本地封禁和跨社区波及
// 放进同一个事务，不会出现只封了一半的中间态。
func (s *MemberService) Ban(ctx context.Context, actor *model.Member, targetMemberID uint64) (*BanResult, error) {
	if err := RequireRole(actor, model.RoleModerator); err != nil {
		return nil, err
	}
	if targetMemberID == 0 {
		return nil, apperr.Validation("missing member id")
	}
	if targetMemberID == actor.ID {
		return nil, apperr.Validation("cannot ban yourself")
	}

	target, err := s.members.FindActiveByID(ctx, targetMemberID, actor.CommunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("member not found")
		}
		return nil, apperr.Internal(err)
	}

	until := time.Now().Add(s.banWindow)
	global := s.activity.IsActive(ctx, actor.CommunityID)

	affected, err := s.members.Ban(ctx, target, until, global, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 评估与写入之间成员退出了
			return nil, apperr.NotFound("member not found")
		}
		return nil, apperr.Internal(err)
	}

	scope := "local"
	if global {
		scope = "global"
	}
	return &BanResult{Scope: scope, Affected: affected, BanUntil: until}, nil
}

// AddAuthority 授予 MODERATOR/ADMIN；目标已是该角色返回 Conflict
func (s *MemberService) AddAuthority(ctx context.Context, actor *model.Member, targetMemberID uint64, role model.Role) (*model.Member, error) {
	if err := RequireRole(actor, model.RoleModerator); err != nil {
		return nil, err
	}
	if !role.IsAuthority() {
		return nil, apperr.Validation("role must be MODERATOR or ADMIN")
	}

	var from []model.Role
	for _, r := range []model.Role{model.RoleMember, model.RoleModerator, model.RoleAdmin} {
		if r != role {
			from = append(from, r)
		}
	}
	affected, err := s.members.UpdateRole(ctx, targetMemberID, actor.CommunityID, from, role)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if affected == 0 {
		if _, err := s.members.FindActiveByID(ctx, targetMemberID, actor.CommunityID); err != nil {
			return nil, apperr.NotFound("member not found")
		}
		return nil, apperr.Conflict("member already has this role")
	}
	m, err := s.members.FindActiveByID(ctx, targetMemberID, actor.CommunityID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

// RemoveAuthority 仅 ADMIN 可降级；目标不是管理角色按记录不符处理
func (s *MemberService) RemoveAuthority(ctx context.Context, actor *model.Member, targetMemberID uint64) (*model.Member, error) {
	if err := RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}

	affected, err := s.members.UpdateRole(ctx, targetMemberID, actor.CommunityID,
		[]model.Role{model.RoleModerator, model.RoleAdmin}, model.RoleMember)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if affected == 0 {
		return nil, apperr.NotFound("member not found or not an authority")
	}
	m, err := s.members.FindActiveByID(ctx, targetMemberID, actor.CommunityID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}
