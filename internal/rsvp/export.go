package rsvp

import (
	"strconv"

	"github.com/AlexTLDR/rsvpsync/internal/i18n"
	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

// ExportDateLayout formats submission dates in the exported table.
const ExportDateLayout = "2006-01-02 15:04:05"

const (
	exportColumnName = "Name"
	exportColumnYes  = "Yes"
	exportColumnNo   = "No"
	exportColumnTel  = "Phone"
)

// ExportTable builds the table of all responses that is uploaded next to the
// invite list. Yes and No hold "1" or nothing.
func (e *Expander) ExportTable(responses []Response) *sheet.Table {
	columns := []string{ColumnSubmitted, exportColumnName, exportColumnYes, exportColumnNo}
	if e.opts.FoodColumn != "" {
		columns = append(columns, e.opts.FoodColumn)
	}
	if e.opts.CommentsColumn != "" {
		columns = append(columns, e.opts.CommentsColumn)
	}
	if e.opts.PhoneColumn != "" {
		columns = append(columns, exportColumnTel)
	}

	t := sheet.NewTable(columns...)
	for _, r := range responses {
		yes, no := "", ""
		if r.Attending {
			yes = "1"
		} else {
			no = "1"
		}
		row := []string{r.SubmittedAt.Format(ExportDateLayout), r.Name, yes, no}
		if e.opts.FoodColumn != "" {
			row = append(row, r.FoodRequests)
		}
		if e.opts.CommentsColumn != "" {
			row = append(row, r.Comments)
		}
		if e.opts.PhoneColumn != "" {
			row = append(row, r.Phone)
		}
		t.Append(row)
	}
	return t
}

// Totals counts attending and declining responses.
func Totals(responses []Response) (yes, no int) {
	for _, r := range responses {
		if r.Attending {
			yes++
		} else {
			no++
		}
	}
	return yes, no
}

// Fixed cells on the export sheet.
var (
	BannerCell    = sheet.MustParseCellRef("A1")
	YesHeaderCell = sheet.MustParseCellRef("B3")
	NoHeaderCell  = sheet.MustParseCellRef("C3")
	TotalsCell    = sheet.MustParseCellRef("A4")
	TotalYesCell  = sheet.MustParseCellRef("B4")
	TotalNoCell   = sheet.MustParseCellRef("C4")
)

// SummaryUpdates returns the banner and totals written on the export sheet.
func SummaryUpdates(labels i18n.Labels, totalYes, totalNo int) []sheet.CellUpdate {
	return []sheet.CellUpdate{
		{Ref: BannerCell, Value: labels.Banner},
		{Ref: YesHeaderCell, Value: labels.Yes},
		{Ref: NoHeaderCell, Value: labels.No},
		{Ref: TotalsCell, Value: labels.Totals},
		{Ref: TotalYesCell, Value: strconv.Itoa(totalYes)},
		{Ref: TotalNoCell, Value: strconv.Itoa(totalNo)},
	}
}
