// Package neo4j implements graph.Store on a Neo4j property graph.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"marketmind/pkg/graph"
)

// Store holds the driver for one Neo4j instance. It satisfies graph.Store.
type Store struct {
	driver neo4j.DriverWithContext
}

var _ graph.Store = (*Store)(nil)

// NewStoreParams configures the connection to Neo4j.
type NewStoreParams struct {
	URI      string
	Username string
	Password string
}

// NewStore connects to Neo4j, verifies connectivity and declares the schema.
func NewStore(ctx context.Context, params NewStoreParams) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.Username, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("connect to neo4j at %s: %w", params.URI, err)
	}

	store := &Store{driver: driver}
	if err := store.InitSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Store) write(ctx context.Context, query string, params map[string]any) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	return err
}

func (s *Store) read(
	ctx context.Context,
	query string,
	params map[string]any,
	collect func(record *neo4j.Record) error,
) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		for result.Next(ctx) {
			if err := collect(result.Record()); err != nil {
				return nil, err
			}
		}
		return nil, result.Err()
	})
	return err
}

// Conversion helpers for record values, which arrive as any.

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func asTime(v any) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}

func asStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
