package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"community-mod/internal/model"
	"community-mod/internal/repository/mysql"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

// newTestDB 每个测试一个独立的内存库，表结构与线上同一份迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddUint64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func testPolicy() ActivityPolicy {
	return ActivityPolicy{MinMembers: 50, MinPosts: 20, MinPercent: 60}
}

func seedCommunity(t *testing.T, db *gorm.DB, name string, creatorID uint64) *model.Community {
	t.Helper()
	c := &model.Community{Name: name, CreatorID: creatorID}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedMember(t *testing.T, db *gorm.DB, communityID, userID uint64, role model.Role) *model.Member {
	t.Helper()
	m := &model.Member{CommunityID: communityID, UserID: userID, Role: role}
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedPost(t *testing.T, db *gorm.DB, m *model.Member, state model.PostState) *model.Post {
	t.Helper()
	p := &model.Post{
		CommunityID: m.CommunityID,
		MemberID:    m.ID,
		Title:       fmt.Sprintf("post-%d", time.Now().UnixNano()),
		State:       state,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedSample(t *testing.T, db *gorm.DB, communityID uint64, posts, posters int64) {
	t.Helper()
	require.NoError(t, db.Create(&model.CommunityActivitySample{
		CommunityID: communityID,
		Day:         Day(time.Now()),
		PostCount:   posts,
		PosterCount: posters,
	}).Error)
}

func reloadPost(t *testing.T, db *gorm.DB, id uint64) *model.Post {
	t.Helper()
	var p model.Post
	require.NoError(t, db.First(&p, id).Error)
	return &p
}

func reloadMember(t *testing.T, db *gorm.DB, id uint64) *model.Member {
	t.Helper()
	var m model.Member
	require.NoError(t, db.First(&m, id).Error)
	return &m
}
