package service

import (
	"context"
	"errors"

	"community-mod/internal/model"
	"community-mod/internal/pkg/apperr"
	"community-mod/internal/repository/mysql"

	"gorm.io/gorm"
)

// AuthzService 把调用者解析成社区内的在籍成员，所有审核操作的第一道闸门
type AuthzService struct {
	members *mysql.MemberRepository
}

func NewAuthzService(members *mysql.MemberRepository) *AuthzService {
	return &AuthzService{members: members}
}

// Resolve 查 (community, user) 的在籍记录；没有则 NotFound，无副作用
func (s *AuthzService) Resolve(ctx context.Context, communityID, userID uint64) (*model.Member, error) {
	if communityID == 0 || userID == 0 {
		return nil, apperr.Validation("missing community or user id")
	}
	m, err := s.members.FindActive(ctx, communityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("not a member of this community")
		}
		return nil, apperr.Internal(err)
	}
	return m, nil
}

// RequireRole 最低角色校验，MEMBER 永远过不了管理门槛
func RequireRole(m *model.Member, min model.Role) error {
	if m.Role < min {
		return apperr.Forbidden("requires " + min.String() + " role")
	}
	return nil
}
