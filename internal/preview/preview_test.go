package preview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okonomi-dev/kiroku/internal/kv"
	"github.com/okonomi-dev/kiroku/pkg/types"
)

func sampleRequest() types.SaveRequest {
	return types.SaveRequest{
		Target: types.NameRef("アニメ一覧"),
		Properties: types.PropertySet{}.
			Set("名前", types.StringValue("鬼滅の刃 面白かった 9点")).
			Set("評価", types.NumberValue(9)).
			Set("タグ", types.ListValue("アニメ", "2期待ち")),
	}
}

func TestStageThenConsume(t *testing.T) {
	s := New(kv.NewMemory())
	ctx := context.Background()

	token, err := s.Stage(ctx, sampleRequest())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := s.Consume(ctx, token)
	require.NoError(t, err)
	require.Equal(t, sampleRequest(), *got, "consume returns the staged request verbatim")
}

func TestConsumeIsOneShot(t *testing.T) {
	s := New(kv.NewMemory())
	ctx := context.Background()

	token, err := s.Stage(ctx, sampleRequest())
	require.NoError(t, err)

	_, err = s.Consume(ctx, token)
	require.NoError(t, err)

	_, err = s.Consume(ctx, token)
	require.Error(t, err)
	require.True(t, errors.Is(err, types.ErrNotFound))
}

func TestConsumeUnknownToken(t *testing.T) {
	s := New(kv.NewMemory())

	_, err := s.Consume(context.Background(), "no-such-token")
	require.Error(t, err)
	require.True(t, errors.Is(err, types.ErrNotFound))
}

func TestTokensAreUnique(t *testing.T) {
	s := New(kv.NewMemory())
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := s.Stage(ctx, sampleRequest())
		require.NoError(t, err)
		require.False(t, seen[token], "token %q issued twice", token)
		seen[token] = true
	}
}
