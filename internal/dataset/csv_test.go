package dataset

import (
	"strings"
	"testing"
)

const sampleCSV = `,team,team_opp,season,date,home,won,pts,ast,mp.1
0,BOS,NYK,2023,2023-01-02,True,True,120,28,240.0
1,NYK,BOS,2023,2023-01-02,False,False,110,,240.0
2,BOS,PHI,2023,2023-01-04,0,1.0,99,30,240.0
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}

	// The pandas index and mp.1 columns are not metrics.
	for _, name := range table.Metrics {
		if name == "" || name == "mp.1" {
			t.Errorf("artifact column %q leaked into metrics", name)
		}
	}
	if len(table.Metrics) != 2 {
		t.Errorf("expected metrics [ast pts], got %v", table.Metrics)
	}

	first := table.Rows[0]
	if first.Team != "BOS" || first.Opponent != "NYK" || !first.Home || !first.Won {
		t.Errorf("unexpected first row: %+v", first)
	}
	if v, ok := first.Stat("pts"); !ok || v != 120 {
		t.Errorf("expected pts=120, got %v (ok=%v)", v, ok)
	}
}

func TestReadCSVMissingMetricBecomesNaN(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	found := false
	for _, row := range table.Rows {
		if row.Team != "NYK" {
			continue
		}
		found = true
		if _, ok := row.Stat("ast"); ok {
			t.Error("empty ast cell should be a missing value")
		}
	}
	if !found {
		t.Fatal("NYK row not found")
	}
}

func TestReadCSVNumericFlags(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	last := table.Rows[2]
	if last.Home {
		t.Error("home flag '0' should parse false")
	}
	if !last.Won {
		t.Error("won flag '1.0' should parse true")
	}
}

func TestReadCSVMissingRequiredColumn(t *testing.T) {
	bad := "team,season,date,home,won\nBOS,2023,2023-01-02,True,True\n"
	if _, err := ReadCSV(strings.NewReader(bad)); err == nil {
		t.Fatal("expected error for missing team_opp column")
	}
}

func TestReadCSVInvalidDate(t *testing.T) {
	bad := "team,team_opp,season,date,home,won\nBOS,NYK,2023,Jan 2,True,True\n"
	if _, err := ReadCSV(strings.NewReader(bad)); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}
