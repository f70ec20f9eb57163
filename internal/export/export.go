package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/warehouse_pulse/backend/internal/models"
)

var pickingHeader = []string{
	"QNAME", "QDATU", "HOUR", "FLOW", "FLOOR",
	"LINES_PICKED", "ITEMS_PICKED", "WEIGHT_PICKED", "RATIO", "EFFORT",
	"WEIGHT_INTENSITY", "ITEM_INTENSITY", "PRODUCTIVITY",
}

var packingHeader = []string{
	"QNAME", "QDATU", "HOUR", "FLOW", "FLOOR", "BOXES_PACKED", "EFFORT", "PRODUCTIVITY",
}

// Writer emits run artifacts into one output directory. Readers on the API
// side consume the same files, so names are fixed here in one place.
type Writer struct {
	Dir string
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Writer{Dir: dir}, nil
}

// WritePickingStats writes {prefix}_hourly_stats.csv and
// {prefix}_daily_stats.csv. The daily file reuses the hourly header minus the
// HOUR column.
func (w *Writer) WritePickingStats(prefix string, hourly []models.HourlyStat, daily []models.DailyStat) error {
	hourlyRows := make([][]string, 0, len(hourly))
	for _, r := range hourly {
		hourlyRows = append(hourlyRows, []string{
			r.Worker, r.Date, strconv.Itoa(r.Hour), r.Flow, r.Floor,
			strconv.Itoa(r.Lines), fnum(r.Items), fnum(r.Weight), fnum(r.Ratio), fnum(r.Effort),
			fnum(r.WeightIntensity), fnum(r.ItemIntensity), fnum(r.Productivity),
		})
	}
	if err := w.writeCSV(prefix+"_hourly_stats.csv", pickingHeader, hourlyRows); err != nil {
		return err
	}

	dailyHeader := append([]string{}, pickingHeader[0:2]...)
	dailyHeader = append(dailyHeader, pickingHeader[3:]...)
	dailyRows := make([][]string, 0, len(daily))
	for _, r := range daily {
		dailyRows = append(dailyRows, []string{
			r.Worker, r.Date, r.Flow, r.Floor,
			strconv.Itoa(r.Lines), fnum(r.Items), fnum(r.Weight), fnum(r.Ratio), fnum(r.Effort),
			fnum(r.WeightIntensity), fnum(r.ItemIntensity), fnum(r.Productivity),
		})
	}
	return w.writeCSV(prefix+"_daily_stats.csv", dailyHeader, dailyRows)
}

// WritePackingStats writes {prefix}_packing_hourly_stats.csv and
// {prefix}_packing_daily_stats.csv.
func (w *Writer) WritePackingStats(prefix string, hourly []models.PackHourlyStat, daily []models.PackDailyStat) error {
	hourlyRows := make([][]string, 0, len(hourly))
	for _, r := range hourly {
		hourlyRows = append(hourlyRows, []string{
			r.Worker, r.Date, strconv.Itoa(r.Hour), r.Flow, r.Floor,
			strconv.Itoa(r.Boxes), fnum(r.Effort), fnum(r.Productivity),
		})
	}
	if err := w.writeCSV(prefix+"_packing_hourly_stats.csv", packingHeader, hourlyRows); err != nil {
		return err
	}

	dailyHeader := append([]string{}, packingHeader[0:2]...)
	dailyHeader = append(dailyHeader, packingHeader[3:]...)
	dailyRows := make([][]string, 0, len(daily))
	for _, r := range daily {
		dailyRows = append(dailyRows, []string{
			r.Worker, r.Date, r.Flow, r.Floor,
			strconv.Itoa(r.Boxes), fnum(r.Effort), fnum(r.Productivity),
		})
	}
	return w.writeCSV(prefix+"_packing_daily_stats.csv", dailyHeader, dailyRows)
}

// WriteJSON writes one artifact as indented JSON.
func (w *Writer) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.Dir, name), data, 0o644)
}

// ReadJSONRaw returns one artifact verbatim. os.ErrNotExist passes through so
// handlers can answer "not produced yet" instead of failing.
func (w *Writer) ReadJSONRaw(name string) (json.RawMessage, error) {
	return os.ReadFile(filepath.Join(w.Dir, name))
}

// ReadCSV parses one artifact back into keyed rows, restoring numeric cells
// the way the artifact consumers expect.
func (w *Writer) ReadCSV(name string) ([]map[string]any, error) {
	f, err := os.Open(filepath.Join(w.Dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := map[string]any{}
		for i, col := range header {
			if i >= len(rec) {
				break
			}
			row[col] = typed(rec[i])
		}
		out = append(out, row)
	}
	return out, nil
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.Dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func typed(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
