package repositories_test

import (
	"context"
	"io"
	"testing"

	_ "embed"

	"github.com/Afifibytes/simple-survey-tool/internal/sqlite"
	"github.com/Afifibytes/simple-survey-tool/internal/testhelpers"
)

//go:embed testdata/fixtures.sql
var testFixtures string

// newTestDB creates a new in-memory database with test fixtures.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()

	dbs, err := sqlite.NewDatabase(context.Background(), ":memory:", testhelpers.NewLogger(io.Discard))
	if err != nil {
		t.Fatal(err)
	}

	if _, err = dbs.ReadWrite.Exec(testFixtures); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err = dbs.Close(); err != nil {
			t.Fatal(err)
		}
	})

	return dbs
}
