package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/krida-hq/krida-backend/internal/domain/entity"
)

// index mirrors the achievement into Elasticsearch. Best effort: the store
// row is the source of truth and the reindex sweep heals missed writes.
func (s *AchievementService) index(ctx context.Context, a *entity.Achievement) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          a.ID,
		"owner_id":    a.OwnerID,
		"title":       a.Title,
		"description": a.Description,
		"sport":       a.Sport,
		"venue":       a.Venue,
		"status":      a.Status,
		"date":        a.Date.Format("2006-01-02"),
		"created_at":  a.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  a.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: a.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.logErr("es index failed", err, logrus.Fields{"achievement_id": a.ID})
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"status": res.Status(), "achievement_id": a.ID}).Warn("es index response error")
	}
}

func (s *AchievementService) removeFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.logErr("es delete failed", err, logrus.Fields{"achievement_id": id})
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over title, description, sport and
// venue.
func (s *AchievementService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description", "sport", "venue"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// StartReindexScheduler runs a periodic sweep that re-indexes achievements
// updated in the trailing two intervals, healing any missed best-effort
// index writes. Returns the scheduler so the caller can shut it down.
func (s *AchievementService) StartReindexScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			since := s.Now().Add(-2 * interval)
			items, err := s.Repo.ListUpdatedSince(ctx, since)
			if err != nil {
				s.logErr("reindex sweep query failed", err, nil)
				return
			}
			for i := range items {
				s.index(ctx, &items[i])
			}
			if s.Logger != nil && len(items) > 0 {
				s.Logger.WithField("count", len(items)).Debug("reindex sweep completed")
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
