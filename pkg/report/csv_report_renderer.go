package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type CsvReportRendererImpl struct {
}

func NewCsvReportRenderer() *CsvReportRendererImpl {
	return &CsvReportRendererImpl{}
}

func (r *CsvReportRendererImpl) ContentType() string {
	return "text/csv; charset=utf-8"
}

func (r *CsvReportRendererImpl) FileExtension() string {
	return "csv"
}

func (r *CsvReportRendererImpl) Render(report MonthlyReport) ([]byte, error) {
	data := make([][]string, 0, len(report.Bars)+3)
	data = append(data, []string{"Category", "Amount", "Percent"})
	for _, bar := range report.Bars {
		data = append(data, []string{bar.Category, bar.Amount.StringFixed(2), bar.Percent.StringFixed(2)})
	}
	data = append(data,
		[]string{"Total", report.Total.StringFixed(2), ""},
		[]string{"Count", strconv.Itoa(report.Count), ""},
	)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.WriteAll(data); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return nil, err
	}
	return b.Bytes(), nil
}
