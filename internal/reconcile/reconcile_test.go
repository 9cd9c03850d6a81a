package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verilib-dev/structure/internal/certs"
)

func set(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, name := range names {
		out[name] = true
	}
	return out
}

func TestComputeMinimality(t *testing.T) {
	plan := Compute(set("A", "C"), set("A", "B"), set("A", "B", "C"))
	assert.Equal(t, []string{"C"}, plan.Create)
	assert.Equal(t, []string{"B"}, plan.Delete)
}

func TestComputeLeavesUntrackedCertsAlone(t *testing.T) {
	plan := Compute(set("A"), set("A", "legacy"), set("A"))
	assert.Empty(t, plan.Create)
	assert.Empty(t, plan.Delete, "legacy cert is outside the tracked universe")
}

func TestComputeSortsDeterministically(t *testing.T) {
	plan := Compute(set("z", "a", "m"), set(), set())
	assert.Equal(t, []string{"a", "m", "z"}, plan.Create)
}

func TestApplyAndIdempotence(t *testing.T) {
	store := certs.Store{Dir: t.TempDir()}

	plan := Compute(set("A", "B"), set(), set("A", "B"))
	report := Apply(store, plan, 0)

	require.Len(t, report.Actions, 2)
	assert.Equal(t, Action{Symbol: "A", CertPath: store.Path("A"), Op: OpCreated}, report.Actions[0])
	assert.Equal(t, Action{Symbol: "B", CertPath: store.Path("B"), Op: OpCreated}, report.Actions[1])
	assert.Equal(t, 0, report.Before)
	assert.Equal(t, 2, report.After)
	assert.False(t, report.Partial())

	// Second run with the refreshed existing set performs zero actions.
	existing, err := store.Existing()
	require.NoError(t, err)
	plan = Compute(set("A", "B"), existing, set("A", "B"))
	assert.True(t, plan.Empty())
	report = Apply(store, plan, len(existing))
	assert.Empty(t, report.Actions)
	assert.Equal(t, 2, report.After)
}

func TestApplyCreatesBeforeDeletes(t *testing.T) {
	store := certs.Store{Dir: t.TempDir()}
	_, err := store.Create("old")
	require.NoError(t, err)

	plan := Compute(set("new"), set("old"), set("old", "new"))
	report := Apply(store, plan, 1)

	require.Len(t, report.Actions, 2)
	assert.Equal(t, OpCreated, report.Actions[0].Op)
	assert.Equal(t, OpDeleted, report.Actions[1].Op)
	assert.Equal(t, 1, report.After)
}

func TestApplyContinuesPastFailures(t *testing.T) {
	store := certs.Store{Dir: t.TempDir()}
	_, err := store.Create("bad")
	require.NoError(t, err)
	_, err = store.Create("good")
	require.NoError(t, err)

	// A non-empty directory at the cert path makes the delete fail.
	badPath := store.Path("bad")
	require.NoError(t, os.Remove(badPath))
	require.NoError(t, os.Mkdir(badPath, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(badPath, "blocker"), []byte("x"), 0644))

	plan := Plan{Delete: []string{"bad", "good"}}
	report := Apply(store, plan, 2)

	assert.True(t, report.Partial())
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0], "bad")
	assert.Equal(t, 2, report.PlannedDelete)
	assert.Equal(t, 1, report.Deleted, "remaining planned actions still run")
	assert.NoFileExists(t, store.Path("good"))
}
