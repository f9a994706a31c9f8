package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "yatube-post-service/internal/domain/models"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name         string
		number       int
		total        int
		wantNumber   int
		wantOffset   int
		wantNumPages int
		wantPrev     bool
		wantNext     bool
	}{
		{name: "first of two", number: 1, total: 11, wantNumber: 1, wantOffset: 0, wantNumPages: 2, wantNext: true},
		{name: "last partial", number: 2, total: 11, wantNumber: 2, wantOffset: 10, wantNumPages: 2, wantPrev: true},
		{name: "beyond last", number: 3, total: 11, wantNumber: 3, wantOffset: 20, wantNumPages: 2, wantPrev: true},
		{name: "empty set", number: 1, total: 0, wantNumber: 1, wantOffset: 0, wantNumPages: 1},
		{name: "zero becomes one", number: 0, total: 5, wantNumber: 1, wantOffset: 0, wantNumPages: 1},
		{name: "negative becomes one", number: -4, total: 30, wantNumber: 1, wantOffset: 0, wantNumPages: 3, wantNext: true},
		{name: "exact multiple", number: 2, total: 20, wantNumber: 2, wantOffset: 10, wantNumPages: 2, wantPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := model.NewPage(tt.number, model.PostsPerPage, tt.total)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Equal(t, tt.wantOffset, page.Offset())
			assert.Equal(t, tt.wantNumPages, page.NumPages)
			assert.Equal(t, tt.wantPrev, page.HasPrevious())
			assert.Equal(t, tt.wantNext, page.HasNext())
			assert.NotNil(t, page.Items)
			assert.Empty(t, page.Items)
		})
	}
}

func TestPost_Excerpt(t *testing.T) {
	post := &model.Post{Text: "Тестовый текст поста"}
	assert.Equal(t, "Тестовый текст ", post.Excerpt(15))
	assert.Equal(t, post.Text, post.Excerpt(100))
}
