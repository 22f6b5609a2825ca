package report

// ReportRenderer turns a monthly report into a downloadable document.
type ReportRenderer interface {
	ContentType() string
	FileExtension() string
	Render(report MonthlyReport) ([]byte, error)
}
