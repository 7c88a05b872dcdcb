package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/RussAbbott/cubesat/internal/sat"
	"github.com/RussAbbott/cubesat/internal/sim"
)

// Store persists simulation runs under a base directory, one
// subdirectory per run holding metadata.json and trajectory.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Ticks     int                `json:"ticks"`
	Status    string             `json:"status"`
	Metrics   map[string]float64 `json:"metrics"`
}

var csvHeader = []string{
	"tick", "time", "body",
	"px", "py", "pz",
	"vx", "vy", "vz",
	"qw", "qx", "qy", "qz",
	"wx", "wy", "wz",
	"violation",
}

func (s *Store) Save(scenario string, dt, duration float64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  duration,
		Ticks:     result.Ticks,
		Status:    result.Status.String(),
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, rec := range result.Log.Records() {
		if err := w.Write(recordRow(rec)); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func recordRow(rec sim.Record) []string {
	row := make([]string, 0, len(csvHeader))
	row = append(row, strconv.Itoa(rec.Tick))
	row = append(row, fmtF(rec.Time))
	row = append(row, rec.BodyID)
	for _, v := range rec.State.Vector() {
		row = append(row, fmtF(v))
	}
	row = append(row, strconv.FormatBool(rec.Violation))
	return row
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads a saved run back as log records. Rows that fail to
// parse are skipped.
func (s *Store) LoadTrajectory(runID string) ([]sim.Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	records := make([]sim.Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) != len(csvHeader) {
			continue
		}

		rec, err := parseRow(row)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(row []string) (sim.Record, error) {
	var rec sim.Record

	tick, err := strconv.Atoi(row[0])
	if err != nil {
		return rec, err
	}
	t, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return rec, err
	}

	vec := make([]float64, sat.StateDim)
	for j := range vec {
		v, err := strconv.ParseFloat(row[3+j], 64)
		if err != nil {
			return rec, err
		}
		vec[j] = v
	}

	violated, err := strconv.ParseBool(row[len(row)-1])
	if err != nil {
		return rec, err
	}

	rec.Tick = tick
	rec.Time = t
	rec.BodyID = row[2]
	rec.State = sat.StateFromVector(vec)
	rec.Violation = violated
	return rec, nil
}
