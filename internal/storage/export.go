package storage

import (
	"encoding/json"
	"io"
	"math"
	"os"
)

// ExportData is the JSON export of a run. Trajectory cells that are not
// finite numbers encode as null.
type ExportData struct {
	Run        RunMetadata           `json:"run"`
	Epochs     []int                 `json:"epochs"`
	Trajectory map[string][]*float64 `json:"trajectory"`
}

// ExportJSON writes a run's metadata and trajectory as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	traj, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:        *meta,
		Epochs:     traj.Epochs,
		Trajectory: make(map[string][]*float64, len(traj.Columns)),
	}
	for _, c := range traj.Columns {
		series, _ := traj.Series(c)
		cells := make([]*float64, len(series))
		for i, v := range series {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				cells[i] = &series[i]
			}
		}
		data.Trajectory[c] = cells
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV copies a run's trajectory CSV to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	file, err := os.Open(s.TrajectoryPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrRunNotFound
		}
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}
