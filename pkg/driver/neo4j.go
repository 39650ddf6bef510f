package driver

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/soundprediction/grafity/pkg/types"
)

// relationTypePattern restricts what may be interpolated as a relationship
// type. Cypher cannot parameterize relationship types in MERGE, so the type
// is validated here in addition to the vocabulary filter upstream.
var relationTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Neo4jDriver implements GraphDriver for Neo4j databases.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
	timeout  time.Duration
}

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string, timeout time.Duration) (*Neo4jDriver, error) {
	d, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Neo4jDriver{
		client:   d,
		database: database,
		timeout:  timeout,
	}, nil
}

// VerifyConnectivity checks that the store is reachable. Connectivity faults
// found at startup are fatal; later ones surface per-request.
func (n *Neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	ctx, cancel := n.withTimeout(ctx)
	defer cancel()
	if err := n.client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("%w: %v", types.ErrStore, err)
	}
	return nil
}

// AddEpisode implements GraphDriver.
func (n *Neo4jDriver) AddEpisode(ctx context.Context, name, body string, source types.SourceType, description string, reference time.Time) error {
	query := `
		MERGE (e:Episode {name: $name})
		ON CREATE SET e.uuid = $uuid, e.created_at = $created_at
		SET e.body = $body,
		    e.source = $source,
		    e.description = $description,
		    e.reference_time = $reference_time
	`
	return n.write(ctx, query, map[string]any{
		"name":           name,
		"uuid":           uuid.New().String(),
		"created_at":     time.Now().UTC(),
		"body":           body,
		"source":         string(source),
		"description":    description,
		"reference_time": reference.UTC(),
	})
}

// MergeEntity implements GraphDriver. Entity identity is keyed solely by
// name; repeated merges are no-ops.
func (n *Neo4jDriver) MergeEntity(ctx context.Context, name string) error {
	query := `
		MERGE (n:Entity {name: $name})
		ON CREATE SET n.uuid = $uuid, n.created_at = $created_at
	`
	return n.write(ctx, query, map[string]any{
		"name":       name,
		"uuid":       uuid.New().String(),
		"created_at": time.Now().UTC(),
	})
}

// MergeProvenance implements GraphDriver. Requires the episode node to
// already exist: MATCH, not MERGE, on both endpoints.
func (n *Neo4jDriver) MergeProvenance(ctx context.Context, episodeName, entityName string) error {
	query := `
		MATCH (e:Episode {name: $episode_name})
		MATCH (n:Entity {name: $entity_name})
		MERGE (e)-[r:MENTIONS]->(n)
		ON CREATE SET r.uuid = $uuid, r.created_at = $created_at
	`
	return n.write(ctx, query, map[string]any{
		"episode_name": episodeName,
		"entity_name":  entityName,
		"uuid":         uuid.New().String(),
		"created_at":   time.Now().UTC(),
	})
}

// MergeEdge implements GraphDriver. Both endpoints must already exist; a
// MATCH miss makes the write a silent no-op at the store level, so the query
// returns the merge count and a zero count is reported as a failure.
func (n *Neo4jDriver) MergeEdge(ctx context.Context, sourceName, targetName, relationType string) error {
	if !relationTypePattern.MatchString(relationType) {
		return fmt.Errorf("%w: relationship type %q is not a valid identifier", types.ErrUpsert, relationType)
	}

	query := fmt.Sprintf(`
		MATCH (a:Entity {name: $source})
		MATCH (b:Entity {name: $target})
		MERGE (a)-[r:%s]->(b)
		ON CREATE SET r.uuid = $uuid,
		              r.created_at = $created_at,
		              r.fact = $fact
		RETURN count(r) AS merged
	`, "`"+relationType+"`")

	params := map[string]any{
		"source":     sourceName,
		"target":     targetName,
		"uuid":       uuid.New().String(),
		"created_at": time.Now().UTC(),
		"fact":       fmt.Sprintf("%s %s %s", sourceName, relationType, targetName),
	}

	ctx, cancel := n.withTimeout(ctx)
	defer cancel()

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		merged, _ := record.Get("merged")
		return merged, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrStore, err)
	}

	if merged, ok := result.(int64); !ok || merged == 0 {
		return fmt.Errorf("%w: edge %s-[%s]->%s: one or both entities do not exist",
			types.ErrUpsert, sourceName, relationType, targetName)
	}
	return nil
}

// Search implements GraphDriver with a text match over relationship facts
// and entity names.
func (n *Neo4jDriver) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	if strings.TrimSpace(query) == "" {
		return []Match{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	searchQuery := `
		MATCH (s:Entity)-[r]->(t:Entity)
		WHERE r.fact CONTAINS $query OR s.name CONTAINS $query OR t.name CONTAINS $query
		RETURN r.uuid AS uuid, r.fact AS fact, r.valid_at AS valid_at,
		       r.invalid_at AS invalid_at, s.uuid AS source_node_uuid
		LIMIT $limit
	`

	ctx, cancel := n.withTimeout(ctx)
	defer cancel()

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, searchQuery, map[string]any{
			"query": query,
			"limit": limit,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSearch, err)
	}

	records := result.([]*db.Record)
	matches := make([]Match, 0, len(records))
	for _, record := range records {
		m := Match{}
		if v, ok := record.Get("uuid"); ok {
			if s, ok := v.(string); ok {
				m.UUID = s
			}
		}
		if v, ok := record.Get("fact"); ok {
			if s, ok := v.(string); ok {
				m.Fact = s
			}
		}
		if v, ok := record.Get("valid_at"); ok {
			if t, ok := v.(time.Time); ok {
				m.ValidAt = &t
			}
		}
		if v, ok := record.Get("invalid_at"); ok {
			if t, ok := v.(time.Time); ok {
				m.InvalidAt = &t
			}
		}
		if v, ok := record.Get("source_node_uuid"); ok {
			if s, ok := v.(string); ok {
				m.SourceNodeUUID = s
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// ClearAll implements GraphDriver. Wipes all graph data, no confirmation.
func (n *Neo4jDriver) ClearAll(ctx context.Context) error {
	return n.write(ctx, `MATCH (n) DETACH DELETE n`, nil)
}

// CreateIndices implements GraphDriver.
func (n *Neo4jDriver) CreateIndices(ctx context.Context) error {
	ctx, cancel := n.withTimeout(ctx)
	defer cancel()

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	indices := []string{
		"CREATE CONSTRAINT entity_name IF NOT EXISTS FOR (n:Entity) REQUIRE n.name IS UNIQUE",
		"CREATE CONSTRAINT episode_name IF NOT EXISTS FOR (n:Episode) REQUIRE n.name IS UNIQUE",
		"CREATE INDEX entity_created_at IF NOT EXISTS FOR (n:Entity) ON (n.created_at)",
		"CREATE INDEX episode_created_at IF NOT EXISTS FOR (n:Episode) ON (n.created_at)",
	}

	for _, indexQuery := range indices {
		if _, err := session.Run(ctx, indexQuery, nil); err != nil {
			if !strings.Contains(err.Error(), "already exists") && !strings.Contains(err.Error(), "An equivalent") {
				return fmt.Errorf("%w: %v", types.ErrStore, err)
			}
		}
	}
	return nil
}

// Close implements GraphDriver.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

// write runs a single write query in a managed transaction.
func (n *Neo4jDriver) write(ctx context.Context, query string, params map[string]any) error {
	ctx, cancel := n.withTimeout(ctx)
	defer cancel()

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return nil, res.Err()
	})
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrStore, err)
	}
	return nil
}

func (n *Neo4jDriver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, n.timeout)
}
