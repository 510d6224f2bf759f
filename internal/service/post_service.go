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

// PostService 帖子状态机：pending -> published <-> hidden，published/hidden -> deleted。
// 每次流转都在写入时用条件更新复核前置状态，两个并发审核只会成功一个。
type PostService struct {
	posts *mysql.PostRepository
}

func NewPostService(posts *mysql.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// Create 新帖进入待审状态；被禁言/封禁的成员不能发帖
func (s *PostService) Create(ctx context.Context, m *model.Member, title, content string) (*model.Post, error) {
	if title == "" {
		return nil, apperr.ValidationFields("invalid params", map[string]string{"title": "required"})
	}
	if m.Restricted(time.Now()) {
		return nil, apperr.Forbidden("member is restricted")
	}

	post := &model.Post{
		CommunityID: m.CommunityID,
		MemberID:    m.ID,
		Title:       title,
		Content:     content,
		State:       model.PostPending,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperr.Internal(err)
	}
	return post, nil
}

// Approve pending -> published，仅 MODERATOR/ADMIN；重复审批返回 Conflict 而不是静默成功
func (s *PostService) Approve(ctx context.Context, m *model.Member, postID uint64) (*model.Post, error) {
	if err := RequireRole(m, model.RoleModerator); err != nil {
		return nil, err
	}
	affected, err := s.posts.Publish(ctx, postID, m.CommunityID, m.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if affected == 0 {
		return nil, s.explainMiss(ctx, m.CommunityID, postID, "post already processed")
	}
	post, err := s.posts.FindByID(ctx, postID, m.CommunityID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return post, nil
}

// Reject 待审帖没有观众，直接物理删除
func (s *PostService) Reject(ctx context.Context, m *model.Member, postID uint64) error {
	if err := RequireRole(m, model.RoleModerator); err != nil {
		return err
	}
	affected, err := s.posts.DeletePending(ctx, postID, m.CommunityID, m.ID, model.EventPostRejected)
	if err != nil {
		return apperr.Internal(err)
	}
	if affected == 0 {
		return s.explainMiss(ctx, m.CommunityID, postID, "post is not pending")
	}
	return nil
}

// ToggleVisibility published <-> hidden，仅 MODERATOR/ADMIN
func (s *PostService) ToggleVisibility(ctx context.Context, m *model.Member, postID uint64) (model.PostState, error) {
	if err := RequireRole(m, model.RoleModerator); err != nil {
		return "", err
	}
	post, err := s.posts.FindByID(ctx, postID, m.CommunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("post not found")
		}
		return "", apperr.Internal(err)
	}

	var to model.PostState
	switch post.State {
	case model.PostPublished:
		to = model.PostHidden
	case model.PostHidden:
		to = model.PostPublished
	default:
		return "", apperr.Conflict("post is not published")
	}

	affected, err := s.posts.SetVisibility(ctx, postID, m.CommunityID, post.State, to)
	if err != nil {
		return "", apperr.Internal(err)
	}
	// 读写之间状态被并发改掉
	if affected == 0 {
		return "", apperr.Conflict("post state changed, retry")
	}
	return to, nil
}

// Delete 作者或管理者可删。待审帖硬删，已发布帖打时间戳软删；deleted 为终态。
// 普通成员删别人的帖子即便同社区也拒绝。
func (s *PostService) Delete(ctx context.Context, m *model.Member, postID uint64) error {
	post, err := s.posts.FindByID(ctx, postID, m.CommunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post not found")
		}
		return apperr.Internal(err)
	}

	owner := post.MemberID == m.ID
	if !owner && !m.Role.IsAuthority() {
		return apperr.Forbidden("not the post owner")
	}

	switch post.State {
	case model.PostDeleted:
		return apperr.Conflict("post already deleted")
	case model.PostPending:
		affected, err := s.posts.DeletePending(ctx, postID, m.CommunityID, m.ID, model.EventPostDeleted)
		if err != nil {
			return apperr.Internal(err)
		}
		if affected == 0 {
			return apperr.Conflict("post state changed, retry")
		}
		return nil
	default:
		affected, err := s.posts.SoftDelete(ctx, postID, m.CommunityID, m.ID, time.Now())
		if err != nil {
			return apperr.Internal(err)
		}
		if affected == 0 {
			return apperr.Conflict("post state changed, retry")
		}
		return nil
	}
}

// explainMiss 条件更新打了 0 行，回读一次区分"记录不存在"与"状态冲突"
func (s *PostService) explainMiss(ctx context.Context, communityID, postID uint64, conflictMsg string) error {
	_, err := s.posts.FindByID(ctx, postID, communityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("post not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return apperr.Conflict(conflictMsg)
}
