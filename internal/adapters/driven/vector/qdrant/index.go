// Package qdrant provides the Qdrant-backed vector index.
//
// The adapter speaks gRPC to a Qdrant server and keeps one collection of
// document embeddings with cosine distance. Each point carries a small
// denormalised payload (source, text) so search results can still be
// rendered when the metadata index is missing a row.
package qdrant

import (
	"context"
	"fmt"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultCollection is the collection documents are indexed into.
const DefaultCollection = "documents"

// scrollPageSize bounds how many IDs one Scroll request returns.
const scrollPageSize = 1000

// Index is a Qdrant-backed vector index.
type Index struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
}

// NewIndex connects to a Qdrant server and ensures the collection exists
// with the given vector dimensions.
func NewIndex(ctx context.Context, addr string, dimensions int) (*Index, error) {
	conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant at %s: %w", addr, err)
	}

	idx := &Index{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  DefaultCollection,
	}

	if err := idx.ensureCollection(ctx, dimensions); err != nil {
		conn.Close()
		return nil, err
	}
	return idx, nil
}

// ensureCollection creates the collection if it does not exist yet.
func (i *Index) ensureCollection(ctx context.Context, dimensions int) error {
	collections, err := i.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("listing collections: %w", err)
	}

	for _, col := range collections.GetCollections() {
		if col.GetName() == i.collection {
			return nil
		}
	}

	_, err = i.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: i.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(dimensions),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", i.collection, err)
	}
	return nil
}

// Upsert inserts or replaces the vector record for a document.
func (i *Index) Upsert(ctx context.Context, rec domain.VectorRecord) error {
	point := &qdrantclient.PointStruct{
		Id: pointID(rec.DocumentID),
		Vectors: &qdrantclient.Vectors{
			VectorsOptions: &qdrantclient.Vectors_Vector{
				Vector: &qdrantclient.Vector{
					Data: rec.Embedding,
				},
			},
		},
		Payload: map[string]*qdrantclient.Value{
			"source": {Kind: &qdrantclient.Value_StringValue{StringValue: rec.Source}},
			"text":   {Kind: &qdrantclient.Value_StringValue{StringValue: rec.Text}},
		},
	}

	_, err := i.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: i.collection,
		Points:         []*qdrantclient.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upserting point %s: %w", rec.DocumentID, err)
	}
	return nil
}

// Get retrieves a vector record by document ID.
func (i *Index) Get(ctx context.Context, docID string) (*domain.VectorRecord, error) {
	withVectors := true
	resp, err := i.points.Get(ctx, &qdrantclient.GetPoints{
		CollectionName: i.collection,
		Ids:            []*qdrantclient.PointId{pointID(docID)},
		WithPayload:    includePayload(),
		WithVectors: &qdrantclient.WithVectorsSelector{
			SelectorOptions: &qdrantclient.WithVectorsSelector_Enable{Enable: withVectors},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting point %s: %w", docID, err)
	}
	if len(resp.GetResult()) == 0 {
		return nil, domain.ErrNotFound
	}

	point := resp.GetResult()[0]
	rec := &domain.VectorRecord{
		DocumentID: docID,
		Embedding:  point.GetVectors().GetVector().GetData(),
		Source:     payloadString(point.GetPayload(), "source"),
		Text:       payloadString(point.GetPayload(), "text"),
	}
	return rec, nil
}

// Delete removes a document's vector record.
func (i *Index) Delete(ctx context.Context, docID string) error {
	_, err := i.points.Delete(ctx, &qdrantclient.DeletePoints{
		CollectionName: i.collection,
		Points: &qdrantclient.PointsSelector{
			PointsSelectorOneOf: &qdrantclient.PointsSelector_Points{
				Points: &qdrantclient.PointsIdsList{
					Ids: []*qdrantclient.PointId{pointID(docID)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting point %s: %w", docID, err)
	}
	return nil
}

// Search finds the k nearest records to the query vector.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	resp, err := i.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: i.collection,
		Vector:         query,
		Limit:          uint64(k),
		WithPayload:    includePayload(),
	})
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		hits = append(hits, driven.VectorHit{
			DocumentID: point.GetId().GetUuid(),
			Score:      float64(point.GetScore()),
			Source:     payloadString(point.GetPayload(), "source"),
			Text:       payloadString(point.GetPayload(), "text"),
		})
	}
	return hits, nil
}

// ListIDs scrolls the whole collection and returns every document ID.
func (i *Index) ListIDs(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		offset *qdrantclient.PointId
		limit  = uint32(scrollPageSize)
	)

	for {
		resp, err := i.points.Scroll(ctx, &qdrantclient.ScrollPoints{
			CollectionName: i.collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload: &qdrantclient.WithPayloadSelector{
				SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: false},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("scrolling collection: %w", err)
		}

		for _, point := range resp.GetResult() {
			ids = append(ids, point.GetId().GetUuid())
		}

		offset = resp.GetNextPageOffset()
		if offset == nil {
			return ids, nil
		}
	}
}

// Count returns the number of records in the collection.
func (i *Index) Count(ctx context.Context) (int, error) {
	exact := true
	resp, err := i.points.Count(ctx, &qdrantclient.CountPoints{
		CollectionName: i.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Close closes the gRPC connection.
func (i *Index) Close() error {
	return i.conn.Close()
}

// pointID builds a UUID point identifier.
func pointID(docID string) *qdrantclient.PointId {
	return &qdrantclient.PointId{
		PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: docID},
	}
}

// includePayload selects the denormalised payload fields.
func includePayload() *qdrantclient.WithPayloadSelector {
	return &qdrantclient.WithPayloadSelector{
		SelectorOptions: &qdrantclient.WithPayloadSelector_Include{
			Include: &qdrantclient.PayloadIncludeSelector{
				Fields: []string{"source", "text"},
			},
		},
	}
}

// payloadString extracts a string payload field, empty when absent.
func payloadString(payload map[string]*qdrantclient.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
