package service

import (
	"sync"
	"testing"

	"ShengHang/internal/apperr"
	"ShengHang/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publish(t *testing.T, svc *commentService, actor uint64, tt model.TargetType, tid uint64, parent *uint64) *model.Comment {
	t.Helper()
	c, err := svc.Publish(actor, PublishCommentInput{TargetType: tt, TargetID: tid, Content: "内容", ParentID: parent})
	require.NoError(t, err)
	return c
}

func TestCommentPublishValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	u := env.user(t, "u1")

	_, err := svc.Publish(0, PublishCommentInput{TargetType: model.TargetSong, TargetID: 1, Content: "hi"})
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))

	_, err = svc.Publish(u.ID, PublishCommentInput{TargetType: "mv", TargetID: 1, Content: "hi"})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	assert.Equal(t, "target_type", apperr.FieldOf(err))

	_, err = svc.Publish(u.ID, PublishCommentInput{TargetType: model.TargetSong, TargetID: 1, Content: "   "})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	assert.Equal(t, "content", apperr.FieldOf(err))

	c, err := svc.Publish(u.ID, PublishCommentInput{TargetType: model.TargetSong, TargetID: 1, Content: " 好听 "})
	require.NoError(t, err)
	assert.Equal(t, "好听", c.Content)
	assert.Equal(t, model.CommentNormal, c.Status)
	assert.Zero(t, c.LikeCount)
	assert.Equal(t, "u1", c.User.Username)
}

// 不校验父评论和target：回复不存在或已删除的评论都能发，但它们不是一级评论，不出现在列表里
func TestCommentReplyToMissingParent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	u := env.user(t, "u")

	missing := uint64(424242)
	orphan := publish(t, svc, u.ID, model.TargetSong, 1, &missing)
	require.NotNil(t, orphan.ParentID)
	assert.Equal(t, missing, *orphan.ParentID)

	root := publish(t, svc, u.ID, model.TargetSong, 1, nil)
	_, err := svc.Delete(u.ID, root.ID)
	require.NoError(t, err)
	late := publish(t, svc, u.ID, model.TargetSong, 1, &root.ID)
	assert.True(t, env.commentExists(t, late.ID))

	// 回复挂在别的target的评论下面也不拦
	other := publish(t, svc, u.ID, model.TargetSong, 1, nil)
	cross := publish(t, svc, u.ID, model.TargetAlbum, 2, &other.ID)
	assert.Equal(t, model.TargetAlbum, cross.TargetType)

	// 目录里不存在的target也能评论
	ghost := publish(t, svc, u.ID, model.TargetSonglist, 987654, nil)
	assert.True(t, env.commentExists(t, ghost.ID))

	list, err := svc.ListByTarget(model.TargetSong, 1, SortByTime, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].ID)

	_, _, err = svc.Detail(missing)
	assert.True(t, apperr.Is(err, apperr.NotFound))

	// 孤儿回复本身仍然可以被作者删除
	n, err := svc.Delete(u.ID, orphan.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCommentDeleteRemovesWholeSubtree(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	author := env.user(t, "author")
	other := env.user(t, "other")

	root := publish(t, svc, author.ID, model.TargetSong, 1, nil)
	child1 := publish(t, svc, other.ID, model.TargetSong, 1, &root.ID)
	child2 := publish(t, svc, author.ID, model.TargetSong, 1, &root.ID)
	grandchild := publish(t, svc, other.ID, model.TargetSong, 1, &child1.ID)
	great := publish(t, svc, other.ID, model.TargetSong, 1, &grandchild.ID)
	sibling := publish(t, svc, other.ID, model.TargetSong, 1, nil)

	n, err := svc.Delete(author.ID, root.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	for _, id := range []uint64{root.ID, child1.ID, child2.ID, grandchild.ID, great.ID} {
		assert.False(t, env.commentExists(t, id), "comment %d should be gone", id)
	}
	assert.True(t, env.commentExists(t, sibling.ID))
}

func TestCommentDeleteAuthorization(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	author := env.user(t, "author")
	stranger := env.user(t, "stranger")
	admin := env.admin(t, "admin")

	for _, tt := range []model.TargetType{model.TargetSong, model.TargetAlbum} {
		root := publish(t, svc, author.ID, tt, 9, nil)
		reply := publish(t, svc, author.ID, tt, 9, &root.ID)

		_, err := svc.Delete(stranger.ID, root.ID)
		assert.True(t, apperr.Is(err, apperr.Forbidden))
		// 管理员也不能删歌曲、专辑下的评论
		_, err = svc.Delete(admin.ID, root.ID)
		assert.True(t, apperr.Is(err, apperr.Forbidden))

		assert.True(t, env.commentExists(t, root.ID))
		assert.True(t, env.commentExists(t, reply.ID))
	}

	_, err := svc.Delete(stranger.ID, 99999)
	assert.True(t, apperr.Is(err, apperr.NotFound))

	_, err = svc.Delete(0, 1)
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

func TestCommentDeleteBySonglistOwnerOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	owner := env.user(t, "owner")
	commenter := env.user(t, "commenter")
	stranger := env.user(t, "stranger")
	admin := env.admin(t, "admin")

	songlist := &model.Songlist{UserID: owner.ID, Title: "P1", IsPublic: true}
	require.NoError(t, env.db.Create(songlist).Error)

	c1 := publish(t, svc, commenter.ID, model.TargetSonglist, songlist.ID, nil)
	c2 := publish(t, svc, commenter.ID, model.TargetSonglist, songlist.ID, nil)

	_, err := svc.Delete(stranger.ID, c1.ID)
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	_, err = svc.Delete(owner.ID, c1.ID)
	require.NoError(t, err)
	assert.False(t, env.commentExists(t, c1.ID))

	_, err = svc.Delete(admin.ID, c2.ID)
	require.NoError(t, err)
	assert.False(t, env.commentExists(t, c2.ID))
}

func TestCommentHotSort(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	u := env.user(t, "u")

	a := publish(t, svc, u.ID, model.TargetSong, 1, nil)
	b := publish(t, svc, u.ID, model.TargetSong, 1, nil)
	c := publish(t, svc, u.ID, model.TargetSong, 1, nil)
	require.NoError(t, env.db.Model(&model.Comment{}).Where("id = ?", a.ID).Update("like_count", 5).Error)
	require.NoError(t, env.db.Model(&model.Comment{}).Where("id = ?", b.ID).Update("like_count", 2).Error)
	require.NoError(t, env.db.Model(&model.Comment{}).Where("id = ?", c.ID).Update("like_count", 5).Error)

	hot, err := svc.ListByTarget(model.TargetSong, 1, SortByHot, 0, 0)
	require.NoError(t, err)
	require.Len(t, hot, 3)
	assert.Equal(t, []uint64{c.ID, a.ID, b.ID}, []uint64{hot[0].ID, hot[1].ID, hot[2].ID})

	byTime, err := svc.ListByTarget(model.TargetSong, 1, "whatever", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{c.ID, b.ID, a.ID}, []uint64{byTime[0].ID, byTime[1].ID, byTime[2].ID})

	page2, err := svc.ListByTarget(model.TargetSong, 1, SortByTime, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, a.ID, page2[0].ID)
}

func TestCommentStatusFiltering(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	u := env.user(t, "u")

	visible := publish(t, svc, u.ID, model.TargetSong, 3, nil)
	reported := publish(t, svc, u.ID, model.TargetSong, 3, nil)
	require.NoError(t, svc.Report(reported.ID))
	// 重复举报没有额外效果
	require.NoError(t, svc.Report(reported.ID))

	list, err := svc.ListByTarget(model.TargetSong, 3, SortByTime, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, visible.ID, list[0].ID)

	got, replies, err := svc.Detail(reported.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CommentReported, got.Status)
	assert.Empty(t, replies)

	assert.True(t, apperr.Is(svc.Report(424242), apperr.NotFound))
}

func TestCommentDetailRepliesOneLevel(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	u := env.user(t, "u")

	root := publish(t, svc, u.ID, model.TargetAlbum, 2, nil)
	r1 := publish(t, svc, u.ID, model.TargetAlbum, 2, &root.ID)
	r2 := publish(t, svc, u.ID, model.TargetAlbum, 2, &root.ID)
	publish(t, svc, u.ID, model.TargetAlbum, 2, &r1.ID)
	hidden := publish(t, svc, u.ID, model.TargetAlbum, 2, &root.ID)
	require.NoError(t, svc.Report(hidden.ID))

	got, replies, err := svc.Detail(root.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, got.ID)
	require.Len(t, replies, 2)
	assert.Equal(t, r1.ID, replies[0].ID)
	assert.Equal(t, r2.ID, replies[1].ID)

	_, _, err = svc.Detail(77777)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestCommentConcurrentLikes(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	u := env.user(t, "u")
	c := publish(t, svc, u.ID, model.TargetSong, 1, nil)
	require.NoError(t, env.db.Model(&model.Comment{}).Where("id = ?", c.ID).Update("like_count", 3).Error)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Like(c.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, _, err := svc.Detail(c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3+n, got.LikeCount)

	_, err = svc.Like(99999)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestCommentStats(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	u := env.user(t, "u")

	stats, err := svc.Stats(model.TargetSong, 5)
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Nil(t, stats.Hottest)

	top := publish(t, svc, u.ID, model.TargetSong, 5, nil)
	reply := publish(t, svc, u.ID, model.TargetSong, 5, &top.ID)
	reported := publish(t, svc, u.ID, model.TargetSong, 5, nil)
	require.NoError(t, env.db.Model(&model.Comment{}).Where("id = ?", reply.ID).Update("like_count", 7).Error)
	require.NoError(t, env.db.Model(&model.Comment{}).Where("id = ?", reported.ID).Update("like_count", 100).Error)
	require.NoError(t, svc.Report(reported.ID))

	stats, err = svc.Stats(model.TargetSong, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Count)
	require.NotNil(t, stats.Hottest)
	assert.Equal(t, reply.ID, stats.Hottest.ID)
}

func TestMyComments(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	u := env.user(t, "u")
	other := env.user(t, "other")

	first := publish(t, svc, u.ID, model.TargetSong, 1, nil)
	second := publish(t, svc, u.ID, model.TargetAlbum, 1, nil)
	publish(t, svc, other.ID, model.TargetSong, 1, nil)
	require.NoError(t, svc.Report(first.ID))

	mine, err := svc.MyComments(u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
}

// U1评论，U2回复，U1删除自己的评论后整棵树都没了
func TestScenarioDeleteThreadWithReplies(t *testing.T) {
	env := newTestEnv(t)
	svc := env.commentService()
	u1 := env.user(t, "U1")
	u2 := env.user(t, "U2")
	s1 := env.song(t, "S1", 200, 0)

	c1 := publish(t, svc, u1.ID, model.TargetSong, s1.ID, nil)
	c2 := publish(t, svc, u2.ID, model.TargetSong, s1.ID, &c1.ID)

	_, err := svc.Delete(u1.ID, c1.ID)
	require.NoError(t, err)
	assert.False(t, env.commentExists(t, c1.ID))
	assert.False(t, env.commentExists(t, c2.ID))

	list, err := svc.ListByTarget(model.TargetSong, s1.ID, SortByTime, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCollectSubtreeToleratesCycles(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "u")
	a := &model.Comment{UserID: u.ID, TargetType: model.TargetSong, TargetID: 1, Content: "a", Status: model.CommentNormal}
	require.NoError(t, env.db.Create(a).Error)
	b := &model.Comment{UserID: u.ID, TargetType: model.TargetSong, TargetID: 1, Content: "b", Status: model.CommentNormal, ParentID: &a.ID}
	require.NoError(t, env.db.Create(b).Error)
	// 脏数据：a的父亲又指回b
	require.NoError(t, env.db.Model(&model.Comment{}).Where("id = ?", a.ID).Update("parent_id", b.ID).Error)

	levels, err := collectSubtree(env.repos.CommentRepo, []uint64{a.ID})
	require.NoError(t, err)
	assert.Equal(t, [][]uint64{{a.ID}, {b.ID}}, levels)
}
