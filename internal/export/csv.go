package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/focusknob/internal/ledger"
)

// ToCSV writes one row per recorded session.
func ToCSV(days []ledger.Day, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Type", "Start", "End", "Minutes", "Duration"}); err != nil {
		return err
	}

	for _, d := range days {
		for _, s := range d.Sessions {
			row := []string{
				d.Date.String(),
				s.Kind.String(),
				s.Start.String(),
				s.End.String(),
				strconv.Itoa(s.Minutes),
				formatDuration(s.Minutes),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}
