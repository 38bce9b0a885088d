package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/san-kum/mllab/internal/experiment"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

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
	Viz       string             `json:"viz"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Steps     int                `json:"steps"`
	Params    map[string]float64 `json:"params,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
	Columns   []string           `json:"columns"`
	ElapsedMs int64              `json:"elapsed_ms"`
}

// Trajectory is the per-epoch metric table of a run. Cells missing from the
// file read as NaN.
type Trajectory struct {
	Columns []string
	Epochs  []int
	Rows    [][]float64
}

// Series returns one column of the trajectory.
func (t *Trajectory) Series(name string) ([]float64, bool) {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Save writes the run's metadata and trajectory under a new run ID. A failed
// save leaves no run directory behind.
func (s *Store) Save(result *experiment.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", result.Viz, xid.New().String())
	runDir := filepath.Join(s.baseDir, runID)

	columns := result.MetricNames()
	meta := RunMetadata{
		ID:        runID,
		Viz:       result.Viz,
		Timestamp: time.Now(),
		Seed:      result.Seed,
		Steps:     result.Steps,
		Params:    result.Params,
		Metrics:   result.Final,
		Columns:   columns,
		ElapsedMs: result.Duration.Milliseconds(),
	}
	body, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeRun(runDir, body, columns, result.Trajectory); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

// writeRun writes the metadata and the trajectory table. A metric missing
// from a sample is written as an empty cell.
func writeRun(runDir string, meta []byte, columns []string, samples []experiment.Sample) error {
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), append(meta, '\n'), 0644); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(append([]string{"epoch"}, columns...)); err != nil {
		return err
	}
	for _, sample := range samples {
		row := []string{strconv.Itoa(sample.Epoch)}
		for _, c := range columns {
			cell := ""
			if v, ok := sample.Metrics[c]; ok {
				cell = strconv.FormatFloat(v, 'g', -1, 64)
			}
			row = append(row, cell)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return csvFile.Close()
}

// List returns all runs, newest first. Directories without readable
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// TrajectoryPath is the CSV file of a run.
func (s *Store) TrajectoryPath(runID string) string {
	return filepath.Join(s.baseDir, runID, trajectoryFile)
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(s.TrajectoryPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	t := &Trajectory{}
	if len(records) == 0 {
		return t, nil
	}
	t.Columns = records[0][1:]

	for _, record := range records[1:] {
		if len(record) != len(t.Columns)+1 {
			continue
		}
		epoch, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		row := make([]float64, len(t.Columns))
		for j := range t.Columns {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				v = math.NaN()
			}
			row[j] = v
		}
		t.Epochs = append(t.Epochs, epoch)
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}
