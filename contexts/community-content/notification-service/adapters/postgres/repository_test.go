package postgresadapter

import (
	"testing"

	"agora/contexts/community-content/notification-service/domain/entities"

	"gorm.io/gorm/clause"
)

func TestDedupConflictTargetsPartialLikeIndex(t *testing.T) {
	conflict := dedupConflict()

	if !conflict.DoNothing {
		t.Fatalf("expected DO NOTHING conflict action, got %+v", conflict)
	}
	want := []string{"recipient_id", "content_id", "type"}
	if len(conflict.Columns) != len(want) {
		t.Fatalf("expected conflict target %v, got %+v", want, conflict.Columns)
	}
	for i, col := range conflict.Columns {
		if col.Name != want[i] {
			t.Fatalf("expected conflict target %v, got %+v", want, conflict.Columns)
		}
	}

	// Without a predicate matching the partial index, Postgres cannot infer
	// the arbiter and every insert fails with 42P10.
	if len(conflict.TargetWhere.Exprs) != 1 {
		t.Fatalf("expected one conflict target predicate, got %+v", conflict.TargetWhere.Exprs)
	}
	eq, ok := conflict.TargetWhere.Exprs[0].(clause.Eq)
	if !ok {
		t.Fatalf("expected an equality predicate, got %T", conflict.TargetWhere.Exprs[0])
	}
	col, ok := eq.Column.(clause.Column)
	if !ok || col.Name != "type" {
		t.Fatalf("expected the predicate on the type column, got %+v", eq)
	}
	if eq.Value != string(entities.TypeLike) {
		t.Fatalf("expected the predicate pinned to %s, got %v", entities.TypeLike, eq.Value)
	}
}
