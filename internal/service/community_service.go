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

type CommunityService struct {
	communities *mysql.CommunityRepository
}

func NewCommunityService(communities *mysql.CommunityRepository) *CommunityService {
	return &CommunityService{communities: communities}
}

func (s *CommunityService) Create(ctx context.Context, userID uint64, name, desc string) (*model.Community, error) {
	if name == "" {
		return nil, apperr.ValidationFields("invalid params", map[string]string{"name": "required"})
	}
	community := &model.Community{
		Name:        name,
		Description: desc,
		CreatorID:   userID,
	}
	if _, err := s.communities.Create(ctx, community); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("community name already exists")
		}
		return nil, apperr.Internal(err)
	}
	return community, nil
}

// Join 幂等；退出过的用户重新加入会拿到一条新的成员记录
func (s *CommunityService) Join(ctx context.Context, userID, communityID uint64) (*model.Member, error) {
	if _, err := s.communities.FindByID(ctx, communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("community not found")
		}
		return nil, apperr.Internal(err)
	}
	m, err := s.communities.Join(ctx, communityID, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

func (s *CommunityService) Leave(ctx context.Context, userID, communityID uint64) error {
	affected, err := s.communities.Leave(ctx, communityID, userID, time.Now())
	if err != nil {
		return apperr.Internal(err)
	}
	if affected == 0 {
		return apperr.NotFound("not a member of this community")
	}
	return nil
}

func (s *CommunityService) List(ctx context.Context, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	list, err := s.communities.List(ctx, (page-1)*size, size)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}
