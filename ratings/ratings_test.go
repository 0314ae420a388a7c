package ratings

import (
	"context"
	"errors"
	"testing"

	"recipepress/memstore"
	"recipepress/metadata"
	"recipepress/models"
	"recipepress/mq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	cases := []struct {
		name   string
		scores []int
		want   Stats
	}{
		{"empty", nil, Stats{}},
		{"only unrated", []int{0, 0}, Stats{}},
		{"single", []int{4}, Stats{Count: 1, Avg: 4, Min: 4, Max: 4}},
		{"rounds to one decimal", []int{5, 4, 4}, Stats{Count: 3, Avg: 4.3, Min: 4, Max: 5}},
		{"zero excluded", []int{0, 2, 3}, Stats{Count: 2, Avg: 2.5, Min: 2, Max: 3}},
		{"out of range ignored", []int{7, -1, 1}, Stats{Count: 1, Avg: 1, Min: 1, Max: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Aggregate(tc.scores))
		})
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("")
	require.NoError(t, err)
	assert.Equal(t, Avg, q)

	q, err = ParseQuery("max")
	require.NoError(t, err)
	assert.Equal(t, Max, q)

	_, err = ParseQuery("median")
	assert.Error(t, err)
}

func TestValue(t *testing.T) {
	s := Aggregate([]int{1, 5, 3})
	assert.Equal(t, 3.0, s.Value(Avg))
	assert.Equal(t, 3.0, s.Value(Count))
	assert.Equal(t, 1.0, s.Value(Min))
	assert.Equal(t, 5.0, s.Value(Max))
}

func TestStars(t *testing.T) {
	cases := []struct {
		avg  float64
		want [MaxScore]Star
	}{
		{0, [MaxScore]Star{}},
		{4.3, [MaxScore]Star{StarFull, StarFull, StarFull, StarFull, StarHalf}},
		{4.2, [MaxScore]Star{StarFull, StarFull, StarFull, StarFull, StarEmpty}},
		{2.75, [MaxScore]Star{StarFull, StarFull, StarFull, StarEmpty, StarEmpty}},
		{5, [MaxScore]Star{StarFull, StarFull, StarFull, StarFull, StarFull}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Stars(tc.avg), tc.avg)
	}
}

func TestStarsHTML(t *testing.T) {
	out := StarsHTML(3.5, 1)
	assert.Contains(t, out, `title="3.5 / 5 (1 vote)"`)
	assert.Equal(t, 3, countOf(out, "rpr-star-full"))
	assert.Equal(t, 1, countOf(out, "rpr-star-half"))
	assert.Equal(t, 1, countOf(out, "rpr-star-empty"))
}

func countOf(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}

type failingSource struct{}

func (failingSource) ApprovedComments(context.Context, int64) ([]models.Comment, error) {
	return nil, errors.New("db down")
}

func TestServiceRefresh(t *testing.T) {
	ctx := context.Background()
	comments := memstore.NewComments()
	meta := memstore.NewMeta()
	events := &mq.Recorder{}
	svc := NewService(comments, meta, events)

	for _, c := range []models.Comment{
		{ID: "1", PostID: 9, Rating: 5, Approved: true},
		{ID: "2", PostID: 9, Rating: 2, Approved: true},
		{ID: "3", PostID: 9, Rating: 0, Approved: true},
		{ID: "4", PostID: 9, Rating: 1, Approved: false},
		{ID: "5", PostID: 8, Rating: 1, Approved: true},
	} {
		require.NoError(t, comments.Create(ctx, c))
	}

	st, err := svc.Refresh(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, Stats{Count: 2, Avg: 3.5, Min: 2, Max: 5}, st)

	m, err := meta.AllMeta(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "2", m[metadata.KeyRatingCount])
	assert.Equal(t, "3.5", m[metadata.KeyRatingAverage])

	require.Len(t, events.Events, 1)
	assert.Equal(t, "rating-updated", events.Events[0].Name)
	id, ok := mq.RecipeID(events.Events[0])
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)

	v, err := svc.RatingInfo(ctx, Min, 9)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = svc.RatingInfo(ctx, Avg, 42)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestServiceSourceError(t *testing.T) {
	svc := NewService(failingSource{}, memstore.NewMeta(), nil)
	_, err := svc.Refresh(context.Background(), 1)
	assert.Error(t, err)
}
