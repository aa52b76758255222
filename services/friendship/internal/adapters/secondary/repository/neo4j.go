package repository

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
)

type Neo4jRelationshipRepo struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jRelationshipRepo(driver neo4j.DriverWithContext) *Neo4jRelationshipRepo {
	return &Neo4jRelationshipRepo{driver: driver}
}

// EnsureSchema crée la contrainte d'unicité sur User.id (et donc l'index).
func (r *Neo4jRelationshipRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`
		_, err := tx.Run(ctx, query, nil)
		return nil, err
	})
	return err
}

// CreateRelation pose l'arête (by)-[:FOLLOWS]->(to). MERGE rend l'opération
// idempotente : une arête déjà présente n'est pas un conflit.
func (r *Neo4jRelationshipRepo) CreateRelation(ctx context.Context, byID, toID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (a:User {id: $byId})
			MERGE (b:User {id: $toId})
			MERGE (a)-[r:FOLLOWS]->(b)
			ON CREATE SET r.created_at = datetime()
		`
		_, err := tx.Run(ctx, query, map[string]any{"byId": byID, "toId": toID})
		return nil, err
	})
	return err
}

// DeleteRelation retire l'arête et dit si quelque chose a réellement été
// supprimé ("déjà plus abonné" n'est pas une erreur).
func (r *Neo4jRelationshipRepo) DeleteRelation(ctx context.Context, byID, toID string) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	removed, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (a:User {id: $byId})-[r:FOLLOWS]->(b:User {id: $toId})
			DELETE r
			RETURN count(r) AS removed
		`
		res, err := tx.Run(ctx, query, map[string]any{"byId": byID, "toId": toID})
		if err != nil {
			return false, err
		}
		if res.Next(ctx) {
			n, _ := res.Record().Get("removed")
			return n.(int64) > 0, nil
		}
		return false, res.Err()
	})
	if err != nil {
		return false, err
	}
	return removed.(bool), nil
}

func (r *Neo4jRelationshipRepo) RelationExists(ctx context.Context, byID, toID string) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	exists, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			OPTIONAL MATCH (a:User {id: $byId}), (b:User {id: $toId})
			RETURN a IS NOT NULL AND b IS NOT NULL AND EXISTS((a)-[:FOLLOWS]->(b)) AS following
		`
		res, err := tx.Run(ctx, query, map[string]any{"byId": byID, "toId": toID})
		if err != nil {
			return false, err
		}
		if res.Next(ctx) {
			v, _ := res.Record().Get("following")
			return v.(bool), nil
		}
		// Aucun noeud trouvé : false
		return false, res.Err()
	})
	if err != nil {
		return false, err
	}
	return exists.(bool), nil
}

// CountRelations lit les deux compteurs en une requête : arêtes entrantes
// (followers) et sortantes (following).
func (r *Neo4jRelationshipRepo) CountRelations(ctx context.Context, userID string) (domain.FollowCounts, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	counts, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			OPTIONAL MATCH (u:User {id: $userId})
			RETURN COUNT { (u)<-[:FOLLOWS]-(:User) } AS followers,
			       COUNT { (u)-[:FOLLOWS]->(:User) } AS following
		`
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			rec := res.Record()
			followers, _ := rec.Get("followers")
			following, _ := rec.Get("following")
			return domain.FollowCounts{
				Followers: followers.(int64),
				Following: following.(int64),
			}, nil
		}
		return domain.FollowCounts{}, res.Err()
	})
	if err != nil {
		return domain.FollowCounts{}, fmt.Errorf("neo4j: count relations: %w", err)
	}
	return counts.(domain.FollowCounts), nil
}
