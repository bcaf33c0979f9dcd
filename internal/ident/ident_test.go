package ident_test

import (
	"testing"

	"github.com/isep-jornadas/checkin/internal/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Lengths(t *testing.T) {
	gen := ident.NewGenerator()

	slug, err := gen.NewSlug()
	require.NoError(t, err)
	assert.Len(t, slug, ident.SlugLength)
	assert.True(t, ident.IsSlug(slug))

	token, err := gen.NewAccessToken()
	require.NoError(t, err)
	assert.Len(t, token, ident.AccessTokenLength)
	assert.True(t, ident.IsSlug(token))
}

func TestGenerator_NoRepeats(t *testing.T) {
	gen := ident.NewGenerator()
	seen := make(map[string]struct{}, 5000)

	for i := 0; i < 5000; i++ {
		slug, err := gen.NewSlug()
		require.NoError(t, err)
		_, dup := seen[slug]
		require.False(t, dup, "slug %s generated twice", slug)
		seen[slug] = struct{}{}
	}
}

func TestIsSlug(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"abc123", true},
		{"V1StGXR8_Z", true},
		{"a-b_c", true},
		{"", false},
		{"abc/123", false},
		{"abc 123", false},
		{"abc.123", false},
		{"ção", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ident.IsSlug(tt.in))
		})
	}
}
