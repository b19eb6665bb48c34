package ledger_repo

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"

	"orfebre/internal/core/id"
)

func normalizeSQL(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// The conditional update is the whole concurrency story: two sales racing
// for the last unit both send this statement, and the row predicate lets
// exactly one of them through. It must also refuse deactivated products.
func TestApplyDelta_SQL(t *testing.T) {
	wantSQL := "UPDATE cat_products" +
		" SET stock = stock + $1, version = version + 1" +
		" WHERE id = $2 AND active AND stock + $1 >= 0" +
		" RETURNING stock"
	if got := normalizeSQL(applyDeltaSQL); got != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, got)
	}
}

func TestApplyDelta_DiagnosisSQL(t *testing.T) {
	wantSQL := "SELECT stock, active FROM cat_products WHERE id = $1"
	if got := normalizeSQL(diagnoseDeltaSQL); got != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, got)
	}
}

func TestListMovementsByReference_SQL(t *testing.T) {
	repo := NewStockRepo(nil)
	refID := id.New()

	q := repo.movementSelect().
		Where(squirrel.Eq{"reference_type": "sale"}).
		Where(squirrel.Eq{"reference_id": refID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, product_id, delta, reason, reference_type, reference_id, note, actor, stock_after, created_at" +
		" FROM stock_movements WHERE reference_type = $1 AND reference_id = $2 ORDER BY created_at ASC"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 2 || args[0] != "sale" || args[1] != refID {
		t.Errorf("Args mismatch\nwant: [sale %v]\ngot:  %v", refID, args)
	}
}
