// ABOUTME: Unit tests for Charm-based routine storage.
// ABOUTME: Tests key formats and ID extraction; KV access needs a linked account.
package charm

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/harperreed/routines/internal/models"
)

func TestRoutineKeyFormat(t *testing.T) {
	r := models.NewRoutine("Morning", models.Morning)
	key := routineKey("user-1", r.ID)

	if !strings.HasPrefix(key, "routine:user-1:") {
		t.Errorf("Expected key to start with 'routine:user-1:', got: %s", key)
	}
	if extractID(key, RoutinePrefix+"user-1:") != r.ID {
		t.Errorf("Expected routine id at end of key, got: %s", key)
	}
}

func TestVersionKeysSortByNumber(t *testing.T) {
	keys := []string{versionKey("user-1", "r1", 10), versionKey("user-1", "r1", 2), versionKey("user-1", "r1", 1)}
	sort.Strings(keys)

	want := []int{1, 2, 10}
	for i, key := range keys {
		n, err := strconv.Atoi(extractID(key, versionPrefix("user-1", "r1")))
		if err != nil {
			t.Fatalf("Failed to parse version from %s: %v", key, err)
		}
		if n != want[i] {
			t.Errorf("keys[%d] = %s, want version %d", i, key, want[i])
		}
	}
}

func TestVersionKeysScopedByUser(t *testing.T) {
	mine := versionKey("user-1", "r1", 1)
	if !strings.HasPrefix(mine, "version:user-1:r1:") {
		t.Errorf("Unexpected version key: %s", mine)
	}
	if strings.HasPrefix(mine, versionPrefix("user-2", "r1")) {
		t.Errorf("Version key %s visible under another user's prefix", mine)
	}
}

func TestEventAndNoteKeysScopedByUser(t *testing.T) {
	e := models.NewUsageEvent("user-1", nil, models.ActionViewed)
	if key := eventKey(e); key != "event:user-1:"+e.ID {
		t.Errorf("Unexpected event key: %s", key)
	}

	n := models.NewNote("user-2", "hello")
	if key := noteKey(n); key != "note:user-2:"+n.ID {
		t.Errorf("Unexpected note key: %s", key)
	}
}

func TestExtractID(t *testing.T) {
	id := "abc12345-1234-1234-1234-123456789abc"
	key := NotePrefix + id

	extracted := extractID(key, NotePrefix)
	if extracted != id {
		t.Errorf("Expected extracted ID %q, got %q", id, extracted)
	}
}

func TestRoutineRecordRoundTrip(t *testing.T) {
	r := models.NewRoutine("Evening", models.Evening)
	r.AddStep("Retinol", models.NewProduct("Retinol Serum", "The Ordinary"))

	data, err := marshalJSON(routineRecord{UserID: "user-1", Active: true, Routine: r})
	if err != nil {
		t.Fatalf("marshalJSON failed: %v", err)
	}
	rec, err := unmarshalJSON[routineRecord](data)
	if err != nil {
		t.Fatalf("unmarshalJSON failed: %v", err)
	}
	if !rec.Active || rec.UserID != "user-1" || rec.Routine.ID != r.ID {
		t.Errorf("Record mismatch: %+v", rec)
	}
	if rec.Routine.Steps[0].Product.Name != "Retinol Serum" {
		t.Errorf("Steps not round-tripped: %+v", rec.Routine.Steps)
	}
}
