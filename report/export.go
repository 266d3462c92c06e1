package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/xhhuango/json"
	"gonum.org/v1/gonum/mat"
)

// JSON writes v as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

type pathRow struct {
	Path  int     `csv:"path"`
	Step  int     `csv:"step"`
	Time  float64 `csv:"time"`
	Price float64 `csv:"price"`
}

// WritePathsCSV writes simulated paths in long format, one row per path and
// step. Column j of paths is the price at time j*years/(columns-1).
func WritePathsCSV(w io.Writer, paths *mat.Dense, years float64) error {
	if paths == nil {
		return fmt.Errorf("no simulated paths to export")
	}
	r, c := paths.Dims()
	if c < 2 {
		return fmt.Errorf("path matrix needs at least two columns, got %d", c)
	}
	dt := years / float64(c-1)

	rows := make([]*pathRow, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			rows = append(rows, &pathRow{Path: i, Step: j, Time: float64(j) * dt, Price: paths.At(i, j)})
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("error marshalling paths: %w", err)
	}
	return nil
}
