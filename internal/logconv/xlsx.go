package logconv

import (
	"fmt"
	"io"
	"time"

	"github.com/visitorcount/countercheck/internal/meta"
	api "github.com/visitorcount/countercheck/lib-countercheck"
	"github.com/xuri/excelize/v2"
)

const (
	XLSX_SHEET    = "log"
	XLSX_ROWS_MAX = 100000
)

func excelPos(x, y int) string {
	pos, err := excelize.CoordinatesToCellName(x+1, y+1)
	if err != nil {
		panic(err)
	}
	return pos
}

var statusColors = map[api.Status]string{
	api.StatusHealthy: "89C923",
	api.StatusFailure: "FF2D00",
	api.StatusUnknown: "000000",
	api.StatusAborted: "C0C0C0",
}

// ToXlsx writes records as an Excel sheet.
// Timestamps are converted to the location of createdAt.
func ToXlsx(w io.Writer, s api.LogScanner, createdAt time.Time) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	if err := xlsx.SetSheetName("Sheet1", XLSX_SHEET); err != nil {
		return err
	}

	xlsx.SetAppProps(&excelize.AppProperties{
		Application: "countercheck",
		AppVersion:  meta.Version,
	})
	xlsx.SetDocProps(&excelize.DocProperties{
		Created:        createdAt.Format(time.RFC3339),
		Modified:       createdAt.Format(time.RFC3339),
		Creator:        "countercheck",
		LastModifiedBy: "countercheck",
	})

	zone, _ := createdAt.Zone()
	headers := []string{fmt.Sprintf("time (%s)", zone), "status", "latency", "target", "message", "http_status", "count"}
	for i, h := range headers {
		xlsx.SetCellStr(XLSX_SHEET, excelPos(i, 0), h)
	}

	datefmt := "yyyy-mm-dd hh:mm:ss"
	latencyfmt := "#,##0.000 \"ms\""

	styles := make(map[string]int)
	style := func(color string, border int, format *string) int {
		key := fmt.Sprintf("%s/%d/%v", color, border, format != nil)
		if format != nil {
			key += "/" + *format
		}
		if id, ok := styles[key]; ok {
			return id
		}
		id, _ := xlsx.NewStyle(&excelize.Style{
			CustomNumFmt: format,
			Border:       []excelize.Border{{Type: "bottom", Style: border, Color: color}},
		})
		styles[key] = id
		return id
	}

	setValue := func(x, y int, value any, sid int) {
		pos := excelPos(x, y)
		xlsx.SetCellValue(XLSX_SHEET, pos, value)
		xlsx.SetCellStyle(XLSX_SHEET, pos, pos, sid)
	}

	row := 0
	for s.Scan() {
		row++
		if row > XLSX_ROWS_MAX {
			break
		}

		r := s.Record()
		color := statusColors[r.Status]
		httpStatus, count, _ := splitExtra(r)

		setValue(0, row, r.Time.In(createdAt.Location()), style(color, 1, &datefmt))
		setValue(1, row, r.Status.String(), style(color, 5, nil))
		setValue(2, row, float64(r.Latency.Microseconds())/1000, style(color, 1, &latencyfmt))
		setValue(3, row, r.Target.Redacted(), style(color, 1, nil))
		setValue(4, row, r.Message, style(color, 1, nil))
		setValue(5, row, httpStatus, style(color, 1, nil))
		setValue(6, row, count, style(color, 1, nil))
	}

	if err := xlsx.SetPanes(XLSX_SHEET, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	xlsx.SetColWidth(XLSX_SHEET, "A", "A", 20)
	xlsx.SetColWidth(XLSX_SHEET, "C", "C", 15)
	xlsx.SetColWidth(XLSX_SHEET, "D", "E", 40)

	if err := xlsx.AutoFilter(XLSX_SHEET, "A1:"+excelPos(len(headers)-1, 0), nil); err != nil {
		return err
	}

	return xlsx.Write(w)
}
