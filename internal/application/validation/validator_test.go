package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "yatube-post-service/internal/domain/models"
)

func TestNew_Slug(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{name: "plain", slug: "cats", wantErr: false},
		{name: "with dash and underscore", slug: "big-cats_2", wantErr: false},
		{name: "space", slug: "big cats", wantErr: true},
		{name: "slash", slug: "a/b", wantErr: true},
		{name: "empty", slug: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(&model.CreateGroupDTO{Title: "Cats", Slug: tt.slug, Description: "All about cats"})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, FieldMessages(err), "slug")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_Username(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(&model.SignupDTO{Username: "leo.tolstoy+1@x", Password: "password123"}))

	err := v.Struct(&model.SignupDTO{Username: "leo tolstoy", Password: "short"})
	require.Error(t, err)
	msgs := FieldMessages(err)
	assert.Contains(t, msgs["username"], "valid username")
	assert.Equal(t, "Ensure this value has at least 8 characters.", msgs["password"])
}

func TestFieldMessages_NotValidationErrors(t *testing.T) {
	assert.Empty(t, FieldMessages(assert.AnError))
}
