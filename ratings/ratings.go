// Package ratings aggregates the star ratings left with approved comments and
// keeps the denormalized rpr_rating_count / rpr_rating_average meta in sync.
package ratings

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"recipepress/metadata"
	"recipepress/models"
	"recipepress/mq"
)

const MaxScore = 5

// Query selects one aggregate.
type Query string

const (
	Avg   Query = "avg"
	Count Query = "count"
	Min   Query = "min"
	Max   Query = "max"
)

func ParseQuery(s string) (Query, error) {
	switch q := Query(s); q {
	case Avg, Count, Min, Max:
		return q, nil
	case "":
		return Avg, nil
	}
	return "", fmt.Errorf("unknown rating query %q", s)
}

// Stats over a set of scores. All zero for an empty set.
type Stats struct {
	Count int     `json:"count"`
	Avg   float64 `json:"avg"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
}

// Aggregate computes the stats of scores. Scores outside 1..5 (0 means "no
// rating") are ignored. The average is rounded to one decimal.
func Aggregate(scores []int) Stats {
	var s Stats
	sum := 0
	for _, v := range scores {
		if v <= 0 || v > MaxScore {
			continue
		}
		if s.Count == 0 || v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
		s.Count++
	}
	if s.Count > 0 {
		s.Avg = math.Round(float64(sum)/float64(s.Count)*10) / 10
	}
	return s
}

// Value returns the aggregate selected by q.
func (s Stats) Value(q Query) float64 {
	switch q {
	case Count:
		return float64(s.Count)
	case Min:
		return float64(s.Min)
	case Max:
		return float64(s.Max)
	default:
		return s.Avg
	}
}

// CommentSource lists the approved comments of a post.
type CommentSource interface {
	ApprovedComments(ctx context.Context, postID int64) ([]models.Comment, error)
}

// Service reads ratings and writes the denormalized fields.
type Service struct {
	Comments CommentSource
	Meta     metadata.Store
	Events   mq.Emitter
}

func NewService(comments CommentSource, meta metadata.Store, events mq.Emitter) *Service {
	if events == nil {
		events = mq.Nop{}
	}
	return &Service{Comments: comments, Meta: meta, Events: events}
}

// Stats aggregates the ratings of approved comments on the recipe.
func (s *Service) Stats(ctx context.Context, recipeID int64) (Stats, error) {
	comments, err := s.Comments.ApprovedComments(ctx, recipeID)
	if err != nil {
		return Stats{}, fmt.Errorf("list comments of recipe %d: %w", recipeID, err)
	}
	scores := make([]int, 0, len(comments))
	for _, c := range comments {
		scores = append(scores, c.Rating)
	}
	return Aggregate(scores), nil
}

// RatingInfo returns one aggregate; 0 when the recipe has no ratings.
func (s *Service) RatingInfo(ctx context.Context, q Query, recipeID int64) (float64, error) {
	st, err := s.Stats(ctx, recipeID)
	if err != nil {
		return 0, err
	}
	return st.Value(q), nil
}

// Refresh recomputes count and average and stores them on the recipe. It is
// called after every rating write; concurrent writers race and the last one
// wins.
func (s *Service) Refresh(ctx context.Context, recipeID int64) (Stats, error) {
	st, err := s.Stats(ctx, recipeID)
	if err != nil {
		return Stats{}, err
	}
	if err := s.Meta.UpdateMeta(ctx, recipeID, metadata.KeyRatingCount, strconv.Itoa(st.Count)); err != nil {
		return st, fmt.Errorf("store rating count: %w", err)
	}
	avg := strconv.FormatFloat(st.Avg, 'f', -1, 64)
	if err := s.Meta.UpdateMeta(ctx, recipeID, metadata.KeyRatingAverage, avg); err != nil {
		return st, fmt.Errorf("store rating average: %w", err)
	}

	id := strconv.FormatInt(recipeID, 10)
	s.Events.Emit(ctx, "rating-updated", models.Index{EntityType: "recipe", Method: "PUT", EntityId: id, ItemId: id, ItemType: "recipe"})
	return st, nil
}
