// Package memstore holds map-backed implementations of the storage
// interfaces. Tests and the offline CLI use them in place of Mongo and Redis.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"recipepress/models"
	"recipepress/rdx"
)

// Meta implements metadata.Store.
type Meta struct {
	mu   sync.RWMutex
	data map[int64]map[string]string
}

func NewMeta() *Meta {
	return &Meta{data: map[int64]map[string]string{}}
}

func (s *Meta) AllMeta(_ context.Context, postID int64) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.data[postID]))
	for k, v := range s.data[postID] {
		out[k] = v
	}
	return out, nil
}

func (s *Meta) UpdateMeta(_ context.Context, postID int64, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[postID] == nil {
		s.data[postID] = map[string]string{}
	}
	s.data[postID][key] = value
	return nil
}

func (s *Meta) DeleteMeta(_ context.Context, postID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[postID], key)
	return nil
}

// Terms implements terms.Store.
type Terms struct {
	mu        sync.RWMutex
	terms     map[int64]models.Term
	relations map[int64][]int64
}

func NewTerms() *Terms {
	return &Terms{terms: map[int64]models.Term{}, relations: map[int64][]int64{}}
}

func (s *Terms) Resolve(_ context.Context, termID int64) (*models.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.terms[termID]
	if !ok {
		return nil, fmt.Errorf("term %d: %w", termID, models.ErrNotFound)
	}
	return &t, nil
}

func (s *Terms) TermsFor(_ context.Context, postID int64, taxonomy string) ([]models.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Term
	for _, id := range s.relations[postID] {
		if t, ok := s.terms[id]; ok && t.Taxonomy == taxonomy {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Terms) List(_ context.Context, taxonomy string) ([]models.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Term
	for _, t := range s.terms {
		if t.Taxonomy == taxonomy {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Terms) Save(_ context.Context, term models.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms[term.ID] = term
	return nil
}

// Assign attaches a term to a post.
func (s *Terms) Assign(postID, termID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relations[postID] = append(s.relations[postID], termID)
}

// Delete removes a term, leaving references to it dangling.
func (s *Terms) Delete(termID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.terms, termID)
}

// Media implements media.Store.
type Media struct {
	mu     sync.RWMutex
	assets map[int64]models.MediaAsset
}

func NewMedia() *Media {
	return &Media{assets: map[int64]models.MediaAsset{}}
}

func (s *Media) Resolve(_ context.Context, mediaID int64) (*models.MediaAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.assets[mediaID]
	if !ok {
		return nil, fmt.Errorf("media %d: %w", mediaID, models.ErrNotFound)
	}
	return &m, nil
}

func (s *Media) Save(_ context.Context, m models.MediaAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[m.ID] = m
	return nil
}

func (s *Media) NextID(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last int64
	for id := range s.assets {
		last = max(last, id)
	}
	return last + 1, nil
}

// Posts implements posts.Store.
type Posts struct {
	mu    sync.RWMutex
	posts map[int64]models.RecipePost
}

func NewPosts() *Posts {
	return &Posts{posts: map[int64]models.RecipePost{}}
}

func (s *Posts) Get(_ context.Context, id int64) (*models.RecipePost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("recipe %d: %w", id, models.ErrNotFound)
	}
	return &p, nil
}

func (s *Posts) Save(_ context.Context, p models.RecipePost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[p.ID] = p
	return nil
}

// Comments implements comments.Store and ratings.CommentSource.
type Comments struct {
	mu       sync.RWMutex
	comments map[string]models.Comment
}

func NewComments() *Comments {
	return &Comments{comments: map[string]models.Comment{}}
}

func (s *Comments) Create(_ context.Context, c models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[c.ID]; ok {
		return fmt.Errorf("comment %s already exists", c.ID)
	}
	s.comments[c.ID] = c
	return nil
}

func (s *Comments) Get(_ context.Context, id string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, models.ErrNotFound)
	}
	return &c, nil
}

func (s *Comments) Update(_ context.Context, c models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[c.ID]; !ok {
		return fmt.Errorf("comment %s: %w", c.ID, models.ErrNotFound)
	}
	s.comments[c.ID] = c
	return nil
}

func (s *Comments) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return fmt.Errorf("comment %s: %w", id, models.ErrNotFound)
	}
	delete(s.comments, id)
	return nil
}

func (s *Comments) ListByPost(_ context.Context, postID int64, includePending bool) ([]models.Comment, error) {
	return s.filter(func(c models.Comment) bool {
		return c.PostID == postID && (includePending || c.Approved)
	}), nil
}

func (s *Comments) ApprovedComments(_ context.Context, postID int64) ([]models.Comment, error) {
	return s.filter(func(c models.Comment) bool { return c.PostID == postID && c.Approved }), nil
}

func (s *Comments) filter(keep func(models.Comment) bool) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, c := range s.comments {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Settings implements settings.Store.
type Settings struct {
	mu     sync.RWMutex
	values map[string]any
	Err    error // returned by Load when set
}

func NewSettings(values map[string]any) *Settings {
	s := &Settings{values: map[string]any{}}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *Settings) Load(context.Context) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

func (s *Settings) Set(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Cache implements rdx.Cache and rdx.Flusher. TTLs are ignored.
type Cache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewCache() *Cache {
	return &Cache{data: map[string][]byte{}}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return nil, rdx.ErrMiss
	}
	return append([]byte(nil), b...), nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = append([]byte(nil), value...)
	return nil
}

func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *Cache) FlushRenderings(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, "schema:") || strings.HasPrefix(k, "html:") {
			delete(c.data, k)
		}
	}
	return nil
}

// Len reports the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
