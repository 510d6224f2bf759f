package service

import (
	"context"
	"testing"
	"time"

	"community-mod/internal/model"
	"community-mod/internal/pkg/apperr"
	"community-mod/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	mod := seedMember(t, db, community.ID, 1, model.RoleModerator)
	author := seedMember(t, db, community.ID, 2, model.RoleMember)
	post := seedPost(t, db, author, model.PostPending)

	got, err := svc.Approve(ctx, mod, post.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PostPublished, got.State)

	// 第二次审批同一帖：状态前置条件已失效，必须是 Conflict 而不是再次生效
	_, err = svc.Approve(ctx, mod, post.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// 事务里带出了审核事件
	var n int64
	require.NoError(t, db.Model(&model.ModerationOutbox{}).
		Where("event_type = ?", model.EventPostApproved).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestApproveMissingPost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	mod := seedMember(t, db, community.ID, 1, model.RoleModerator)

	_, err := svc.Approve(ctx, mod, 9999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestApproveForbiddenForMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	member := seedMember(t, db, community.ID, 2, model.RoleMember)
	post := seedPost(t, db, member, model.PostPending)

	_, err := svc.Approve(ctx, member, post.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	// 状态不能被动过
	assert.Equal(t, model.PostPending, reloadPost(t, db, post.ID).State)
}

func TestRejectHardDeletesPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	mod := seedMember(t, db, community.ID, 1, model.RoleModerator)
	author := seedMember(t, db, community.ID, 2, model.RoleMember)
	post := seedPost(t, db, author, model.PostPending)

	require.NoError(t, svc.Reject(ctx, mod, post.ID))

	// 行已物理删除
	var n int64
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", post.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRejectPublishedConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	mod := seedMember(t, db, community.ID, 1, model.RoleModerator)
	author := seedMember(t, db, community.ID, 2, model.RoleMember)
	post := seedPost(t, db, author, model.PostPublished)

	err := svc.Reject(ctx, mod, post.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestToggleVisibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	mod := seedMember(t, db, community.ID, 1, model.RoleModerator)
	author := seedMember(t, db, community.ID, 2, model.RoleMember)
	post := seedPost(t, db, author, model.PostPublished)

	state, err := svc.ToggleVisibility(ctx, mod, post.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PostHidden, state)

	// hidden 不是终态，可以切回 published
	state, err = svc.ToggleVisibility(ctx, mod, post.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PostPublished, state)
}

func TestToggleVisibilityPendingConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	mod := seedMember(t, db, community.ID, 1, model.RoleModerator)
	author := seedMember(t, db, community.ID, 2, model.RoleMember)
	post := seedPost(t, db, author, model.PostPending)

	_, err := svc.ToggleVisibility(ctx, mod, post.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestDeleteByOwnerSoft(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	author := seedMember(t, db, community.ID, 2, model.RoleMember)
	post := seedPost(t, db, author, model.PostPublished)

	require.NoError(t, svc.Delete(ctx, author, post.ID))

	got := reloadPost(t, db, post.ID)
	assert.Equal(t, model.PostDeleted, got.State)
	require.NotNil(t, got.DeletedAt)
	assert.WithinDuration(t, time.Now(), *got.DeletedAt, 5*time.Second)
}

func TestDeleteByOwnerPendingHard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	author := seedMember(t, db, community.ID, 2, model.RoleMember)
	post := seedPost(t, db, author, model.PostPending)

	require.NoError(t, svc.Delete(ctx, author, post.ID))

	var n int64
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", post.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDeleteOthersPostForbidden(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	author := seedMember(t, db, community.ID, 2, model.RoleMember)
	other := seedMember(t, db, community.ID, 3, model.RoleMember)
	post := seedPost(t, db, author, model.PostPublished)

	// 同社区的普通成员删别人的帖子也要拒绝
	err := svc.Delete(ctx, other, post.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, model.PostPublished, reloadPost(t, db, post.ID).State)
}

func TestDeleteByModerator(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	mod := seedMember(t, db, community.ID, 1, model.RoleModerator)
	author := seedMember(t, db, community.ID, 2, model.RoleMember)
	post := seedPost(t, db, author, model.PostHidden)

	require.NoError(t, svc.Delete(ctx, mod, post.ID))
	assert.Equal(t, model.PostDeleted, reloadPost(t, db, post.ID).State)
}

// 终态校验：deleted 之后任何流转都失败
func TestDeletedIsTerminal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	admin := seedMember(t, db, community.ID, 1, model.RoleAdmin)
	author := seedMember(t, db, community.ID, 2, model.RoleMember)
	post := seedPost(t, db, author, model.PostPublished)
	require.NoError(t, svc.Delete(ctx, admin, post.ID))

	_, err := svc.Approve(ctx, admin, post.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	err = svc.Reject(ctx, admin, post.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.ToggleVisibility(ctx, admin, post.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	err = svc.Delete(ctx, admin, post.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateRestrictedMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewPostService(mysql.NewPostRepository(db))

	community := seedCommunity(t, db, "golang", 1)
	banned := seedMember(t, db, community.ID, 2, model.RoleMember)
	until := time.Now().Add(time.Hour)
	banned.Restriction = model.RestrictionBan
	banned.BanUntil = &until
	require.NoError(t, db.Save(banned).Error)

	_, err := svc.Create(ctx, banned, "hello", "world")
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// 窗口过期后处罚自动失效
	expired := time.Now().Add(-time.Minute)
	banned.BanUntil = &expired
	require.NoError(t, db.Save(banned).Error)

	post, err := svc.Create(ctx, banned, "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, model.PostPending, post.State)
}
