package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
)

const eventMapping = `{
  "mappings": {
    "properties": {
      "ownerId":     {"type": "keyword"},
      "nameEvent":   {"type": "text"},
      "descripcion": {"type": "text"},
      "ubicacion":   {"type": "text"},
      "fecha":       {"type": "date"},
      "hora":        {"type": "keyword"},
      "createdAt":   {"type": "date"},
      "updatedAt":   {"type": "date"}
    }
  }
}`

type eventDocument struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"nameEvent"`
	Date        time.Time `json:"fecha"`
	Time        string    `json:"hora"`
	Location    string    `json:"ubicacion"`
	Description string    `json:"descripcion"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toDocument(e *entity.Event) eventDocument {
	return eventDocument{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Name:        e.Name,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (d eventDocument) toEntity() entity.Event {
	return entity.Event{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Date:        d.Date.UTC(),
		Time:        d.Time,
		Location:    d.Location,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// EventIndex mirrors events into an Elasticsearch index for owner-scoped full-text search.
type EventIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewEventIndex(es *elasticsearch.Client, index string) *EventIndex {
	return &EventIndex{es: es, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *EventIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(ctx, x.es)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = esapi.IndicesCreateRequest{Index: x.index, Body: strings.NewReader(eventMapping)}.Do(ctx, x.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && !strings.Contains(readBody(res.Body), "resource_already_exists_exception") {
		return fmt.Errorf("create index %s: %s", x.index, res.Status())
	}
	return nil
}

func (x *EventIndex) IndexEvent(ctx context.Context, e *entity.Event) error {
	body, err := json.Marshal(toDocument(e))
	if err != nil {
		return err
	}
	res, err := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: e.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}.Do(ctx, x.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index event %s: %s", e.ID, res.Status())
	}
	return nil
}

// DeleteEvent removes the document; a missing document is not an error.
func (x *EventIndex) DeleteEvent(ctx context.Context, id string) error {
	res, err := esapi.DeleteRequest{Index: x.index, DocumentID: id}.Do(ctx, x.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete event %s: %s", id, res.Status())
	}
	return nil
}

// searchQuery builds a bool query filtered to the owner. An empty text matches all of the owner's events.
func searchQuery(ownerID, text string, size int) map[string]any {
	must := []any{map[string]any{"match_all": map[string]any{}}}
	if text != "" {
		must = []any{map[string]any{
			"multi_match": map[string]any{
				"query":     text,
				"fields":    []string{"nameEvent^2", "descripcion", "ubicacion"},
				"fuzziness": "AUTO",
			},
		}}
	}
	return map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": []any{map[string]any{"term": map[string]any{"ownerId": ownerID}}},
			},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source eventDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (x *EventIndex) SearchEvents(ctx context.Context, ownerID, text string, size int) ([]entity.Event, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchQuery(ownerID, text, size)); err != nil {
		return nil, err
	}
	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search events: %s", res.Status())
	}
	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, err
	}
	out := make([]entity.Event, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		out = append(out, h.Source.toEntity())
	}
	return out, nil
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(r)
	return string(b)
}
