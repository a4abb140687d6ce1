package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// Identity columns of the flat table produced by the box-score parsing
// collaborator. Everything else is treated as a numeric metric.
const (
	colTeam     = "team"
	colOpponent = "team_opp"
	colSeason   = "season"
	colDate     = "date"
	colHome     = "home"
	colWon      = "won"
)

// skippedColumns are artifacts of the upstream export: a pandas index
// column and the duplicated minutes-played columns it mangles on merge.
var skippedColumns = map[string]struct{}{
	"":          {},
	"index":     {},
	"index_opp": {},
	"mp.1":      {},
	"mp_opp.1":  {},
}

// LoadCSV reads the flat per-team-per-game table from path and builds the
// game record store. Non-numeric metric entries become missing values
// (NaN) rather than errors; missing identity fields are fatal.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses the flat table from r. Split out from LoadCSV so tests
// can feed synthetic tables without touching the filesystem.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := map[string]int{}
	metricCols := []string{}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, skip := skippedColumns[name]; skip {
			continue
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q in dataset header", name)
		}
		index[name] = i
		switch name {
		case colTeam, colOpponent, colSeason, colDate, colHome, colWon:
		default:
			metricCols = append(metricCols, name)
		}
	}
	for _, required := range []string{colTeam, colOpponent, colSeason, colDate, colHome, colWon} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("dataset is missing required column %q", required)
		}
	}

	rows := []*models.GameRow{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record at line %d: %w", line+1, err)
		}
		line++

		row, err := parseRecord(record, index, metricCols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	return New(rows)
}

func parseRecord(record []string, index map[string]int, metricCols []string) (*models.GameRow, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := time.Parse("2006-01-02", field(colDate))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", field(colDate), err)
	}
	season, err := strconv.Atoi(field(colSeason))
	if err != nil {
		return nil, fmt.Errorf("invalid season %q: %w", field(colSeason), err)
	}

	row := &models.GameRow{
		Team:     field(colTeam),
		Opponent: field(colOpponent),
		Season:   season,
		Date:     date,
		Home:     parseFlag(field(colHome)),
		Won:      parseFlag(field(colWon)),
		Stats:    make(map[string]float64, len(metricCols)),
	}

	for _, name := range metricCols {
		v, err := strconv.ParseFloat(field(name), 64)
		if err != nil {
			// Non-numeric entries are missing values, not errors.
			v = math.NaN()
		}
		row.Stats[name] = v
	}

	if err := row.Validate(); err != nil {
		return nil, err
	}
	return row, nil
}

// parseFlag accepts the boolean spellings the upstream export produces:
// "True"/"False", "1"/"0", and "1.0"/"0.0".
func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "true", "t", "1", "1.0":
		return true
	default:
		return false
	}
}
