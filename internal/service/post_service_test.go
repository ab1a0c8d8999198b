package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/dodam/internal/model"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/pkg/response"
)

func seedUser(t *testing.T, db *gorm.DB, nickname string) *model.User {
	t.Helper()
	u := &model.User{
		ID:       uuid.New().String(),
		Email:    nickname + "@example.com",
		Nickname: nickname,
		Password: "hash",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newPostService(t *testing.T) (PostService, *gorm.DB, *fakeUploader) {
	t.Helper()
	db := setupTestDB(t)
	up := &fakeUploader{}
	svc := NewPostService(
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
		up,
		nil,
	)
	return svc, db, up
}

func TestSearchPagination(t *testing.T) {
	svc, db, _ := newPostService(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		category := "game"
		if i%2 == 0 {
			category = "study"
		}
		require.NoError(t, db.Create(&model.Post{
			ID:        uuid.New().String(),
			AuthorID:  author.ID,
			Title:     fmt.Sprintf("title %d", i),
			Content:   fmt.Sprintf("content %d", i),
			Category:  category,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	t.Run("default feed newest first with hasNext", func(t *testing.T) {
		page, err := svc.Search(ctx, "", "", 1, 5)
		require.NoError(t, err)
		require.Len(t, page.Content, 5)
		assert.True(t, page.HasNext)
		assert.Equal(t, "title 6", page.Content[0].Title)
		assert.Equal(t, "title 2", page.Content[4].Title)

		last, err := svc.Search(ctx, "", "", 2, 5)
		require.NoError(t, err)
		require.Len(t, last.Content, 2)
		assert.False(t, last.HasNext)
	})

	t.Run("term filter", func(t *testing.T) {
		page, err := svc.Search(ctx, "content 3", "", 1, 5)
		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		assert.Equal(t, "title 3", page.Content[0].Title)
	})

	t.Run("category filter", func(t *testing.T) {
		page, err := svc.Search(ctx, "", "study", 1, 10)
		require.NoError(t, err)
		assert.Len(t, page.Content, 4)
		assert.False(t, page.HasNext)
	})

	t.Run("defaults applied", func(t *testing.T) {
		page, err := svc.Search(ctx, "", "", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 5, page.Size)
	})
}

func TestCreatePost(t *testing.T) {
	svc, db, up := newPostService(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")

	t.Run("with images", func(t *testing.T) {
		res, err := svc.Create(ctx, author.ID, PostCreateRequest{
			Title:    "hello",
			Content:  "world",
			Category: "game",
		}, []*multipart.FileHeader{makeFileHeader(t, "a.png"), makeFileHeader(t, "b.png")})
		require.NoError(t, err)
		assert.Equal(t, author.ID, res.AuthorID)
		assert.Len(t, res.ImageURLs, 2)
		assert.Equal(t, 2, up.uploads)
	})

	t.Run("upload failure leaves no post row", func(t *testing.T) {
		up.fail = true
		defer func() { up.fail = false }()

		_, err := svc.Create(ctx, author.ID, PostCreateRequest{Title: "broken"}, []*multipart.FileHeader{makeFileHeader(t, "c.png")})
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&model.Post{}).Where("title = ?", "broken").Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestPickToggle(t *testing.T) {
	svc, db, _ := newPostService(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")

	post := &model.Post{ID: uuid.New().String(), AuthorID: author.ID, Title: "pickable"}
	require.NoError(t, db.Create(post).Error)

	t.Run("unknown post", func(t *testing.T) {
		_, err := svc.Pick(ctx, fan.ID, "no-such-post")
		assert.ErrorIs(t, err, response.ErrPostNotFound)
	})

	t.Run("toggle on then off", func(t *testing.T) {
		res, err := svc.Pick(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, res.Picked)
		assert.EqualValues(t, 1, res.PickCount)

		// 再次收藏即取消，幂等开关
		res, err = svc.Pick(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		assert.False(t, res.Picked)
		assert.EqualValues(t, 0, res.PickCount)

		var picks int64
		require.NoError(t, db.Model(&model.Pick{}).Count(&picks).Error)
		assert.Zero(t, picks)
	})
}

func TestPickNotifiesAuthor(t *testing.T) {
	db := setupTestDB(t)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifier := NewNotificationService(notificationRepo, userRepo)
	dispatcher := NewDispatcher(notificationRepo, notifier, 16)
	stop := dispatcher.Start(1)
	defer stop(context.Background())

	svc := NewPostService(repository.NewPostRepository(db), userRepo, &fakeUploader{}, dispatcher)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")

	post := &model.Post{ID: uuid.New().String(), AuthorID: author.ID, Title: "pickable"}
	require.NoError(t, db.Create(post).Error)

	_, err := svc.Pick(ctx, fan.ID, post.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		ns, err := notificationRepo.ListByUser(ctx, author.ID)
		return err == nil && len(ns) == 1
	}, 2*time.Second, 10*time.Millisecond)

	ns, err := notificationRepo.ListByUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Contains(t, ns[0].Content, "fan")
	assert.False(t, ns[0].IsRead)

	// 给自己的帖子点收藏不产生通知
	self := &model.Post{ID: uuid.New().String(), AuthorID: fan.ID, Title: "own"}
	require.NoError(t, db.Create(self).Error)
	_, err = svc.Pick(ctx, fan.ID, self.ID)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	ns, err = notificationRepo.ListByUser(ctx, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, ns)
}
