package answer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/askmebuddy/askmebuddy-api/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentFilter(t *testing.T) {
	f, err := ParseContentFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterStrict, f)

	f, err = ParseContentFilter("moderate")
	require.NoError(t, err)
	assert.Equal(t, FilterModerate, f)

	_, err = ParseContentFilter("anything-goes")
	assert.Error(t, err)
}

func TestOffline(t *testing.T) {
	out, err := Offline{}.Answer(context.Background(), Request{Question: "Why?"})
	require.NoError(t, err)
	assert.Equal(t, unavailableText, out.Text)
	assert.Len(t, out.SuggestedQuestions, 3)
}

type countingAnswerer struct {
	calls int
	err   error
}

func (c *countingAnswerer) Answer(_ context.Context, req Request) (*Answer, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &Answer{Text: "answer to " + req.Question, SuggestedQuestions: []string{"more?"}}, nil
}

func TestCached_ServesRepeatQuestions(t *testing.T) {
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	next := &countingAnswerer{}
	c := NewCached(next, mem, time.Hour, nil)
	ctx := context.Background()

	first, err := c.Answer(ctx, Request{Question: "Why is the sky blue?", ContentFilter: FilterStrict})
	require.NoError(t, err)

	second, err := c.Answer(ctx, Request{Question: "  why is the SKY   blue? ", ContentFilter: FilterStrict})
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
}

func TestCached_KeyIncludesOptions(t *testing.T) {
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	next := &countingAnswerer{}
	c := NewCached(next, mem, time.Hour, nil)
	ctx := context.Background()

	_, err := c.Answer(ctx, Request{Question: "Why?", ContentFilter: FilterStrict})
	require.NoError(t, err)
	_, err = c.Answer(ctx, Request{Question: "Why?", ContentFilter: FilterStandard})
	require.NoError(t, err)
	_, err = c.Answer(ctx, Request{Question: "Why?", ContentFilter: FilterStrict, GenerateImage: true})
	require.NoError(t, err)

	assert.Equal(t, 3, next.calls)
	assert.Equal(t, 3, mem.Len())
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	next := &countingAnswerer{err: errors.New("provider down")}
	c := NewCached(next, mem, time.Hour, nil)

	_, err := c.Answer(context.Background(), Request{Question: "Why?"})
	assert.Error(t, err)
	assert.Equal(t, 0, mem.Len())
}
