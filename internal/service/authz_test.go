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

func TestResolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewAuthzService(mysql.NewMemberRepository(db))

	home := seedCommunity(t, db, "home", 1)
	other := seedCommunity(t, db, "other", 1)
	m := seedMember(t, db, home.ID, 7, model.RoleModerator)

	got, err := svc.Resolve(ctx, home.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, model.RoleModerator, got.Role)

	// 社区必须匹配：同一用户在另一个社区没有成员记录
	_, err = svc.Resolve(ctx, other.ID, 7)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Resolve(ctx, 0, 7)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestResolveLeavedMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewAuthzService(mysql.NewMemberRepository(db))

	home := seedCommunity(t, db, "home", 1)
	m := seedMember(t, db, home.ID, 7, model.RoleAdmin)
	now := time.Now()
	m.LeavedAt = &now
	require.NoError(t, db.Save(m).Error)

	// 退出后角色随之失效
	_, err := svc.Resolve(ctx, home.ID, 7)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	member := &model.Member{Role: model.RoleMember}
	mod := &model.Member{Role: model.RoleModerator}
	admin := &model.Member{Role: model.RoleAdmin}

	// MEMBER 永远过不了管理门槛
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(RequireRole(member, model.RoleModerator)))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(RequireRole(member, model.RoleAdmin)))
	assert.NoError(t, RequireRole(member, model.RoleMember))

	assert.NoError(t, RequireRole(mod, model.RoleModerator))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(RequireRole(mod, model.RoleAdmin)))

	assert.NoError(t, RequireRole(admin, model.RoleModerator))
	assert.NoError(t, RequireRole(admin, model.RoleAdmin))
}
