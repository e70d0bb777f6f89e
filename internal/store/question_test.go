package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func TestRowToQuestion_Options(t *testing.T) {
	row := &questionRow{
		ID:        uuid.New(),
		TeacherID: uuid.New(),
		Text:      "What is the average speed?",
		Type:      "multiple_choice",
		Options:   datatypes.JSON(`{"A":"60 km/h","B":"80 km/h"}`),
		Status:    string(StatusDraft),
	}

	q, err := rowToQuestion(SourceBank, row)
	if err != nil {
		t.Fatalf("rowToQuestion: %v", err)
	}
	if q.Options["B"] != "80 km/h" {
		t.Errorf("Options = %v, want B mapped", q.Options)
	}
	if q.Ref.Source != SourceBank || q.Ref.ID != row.ID {
		t.Errorf("Ref = %+v, want %s/%s", q.Ref, SourceBank, row.ID)
	}
}

func TestRowToQuestion_CorruptOptions(t *testing.T) {
	row := &questionRow{
		ID:      uuid.New(),
		Options: datatypes.JSON(`{"A": "60 km/h",`),
	}

	_, err := rowToQuestion(SourceBank, row)
	if err == nil {
		t.Fatal("want an error for corrupt options JSON")
	}
	if !strings.Contains(err.Error(), "options") {
		t.Errorf("error = %v, want it to name the options column", err)
	}
}
