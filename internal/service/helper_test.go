package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/dodam/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Post{},
		&model.PostImage{},
		&model.Pick{},
		&model.Notification{},
	))
	return db
}

// fakeUploader 替代对象存储
type fakeUploader struct {
	fail    bool
	uploads int
}

func (f *fakeUploader) Upload(_ context.Context, file *multipart.FileHeader, dir string) (string, error) {
	if f.fail {
		return "", errors.New("upload failed")
	}
	f.uploads++
	return "https://cdn.example.com/" + dir + "/" + file.Filename, nil
}

// fakeSender 替代 SMTP
type fakeSender struct {
	fail bool
	to   []string
	body []string
}

func (f *fakeSender) Send(to, _, body string) error {
	if f.fail {
		return errors.New("smtp failed")
	}
	f.to = append(f.to, to)
	f.body = append(f.body, body)
	return nil
}

func makeFileHeader(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("imageFileList", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["imageFileList"][0]
}
