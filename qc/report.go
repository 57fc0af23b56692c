package main

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	mibi "github.com/christianrickert/mibi-bin-tools/pkg"
)

// ChannelResult holds the per-channel quality measures of one fov.
type ChannelResult struct {
	Target            string
	Mass              float64
	Low               uint16
	High              uint16
	InWindowCounts    uint64
	MedianPulseHeight int
	MeanPixelPulses   float64
	MeanIntensity     float64
	StdDevIntensity   float64
}

// FovQC aggregates the quality measures of one fov for reporting.
type FovQC struct {
	Name        string
	RunNumber   int
	ReportID    string
	Header      mibi.FileHeader
	TotalCounts uint64
	Channels    []ChannelResult
}

// SaveQCReport renders the fov quality measures into a PDF document.
func SaveQCReport(qc FovQC, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Fov QC Report: "+qc.Name, false)
	pdf.SetAuthor("mibiqc", false)
	pdf.SetCreator("mibiqc", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	addPDFTitle(pdf, "Fov QC Report: "+qc.Name)
	addReportQR(pdf, qc.ReportID)
	addSummarySection(pdf, qc)
	addChannelSection(pdf, qc.Channels)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

// addReportQR stamps a QR code encoding the report identifier into the
// top right corner, outside the text flow.
func addReportQR(pdf *gofpdf.Fpdf, reportID string) {
	png, err := qrcode.Encode(reportID, qrcode.Medium, 128)
	if err != nil {
		pdf.SetError(err)
		return
	}
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("report-qr", opt, bytes.NewReader(png))
	pdf.ImageOptions("report-qr", 170, 10, 25, 25, false, opt, 0, "")
}

func addSummarySection(pdf *gofpdf.Fpdf, qc FovQC) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "Run Number", value: strconv.Itoa(qc.RunNumber)},
		{label: "Grid", value: fmt.Sprintf("%d x %d", qc.Header.NumX, qc.Header.NumY)},
		{label: "Triggers per Pixel", value: strconv.Itoa(int(qc.Header.NumTriggers))},
		{label: "Frames", value: strconv.Itoa(int(qc.Header.NumFrames))},
		{label: "Total Counts", value: strconv.FormatUint(qc.TotalCounts, 10)},
		{label: "Report ID", value: qc.ReportID},
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addChannelSection(pdf *gofpdf.Fpdf, channels []ChannelResult) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Channels")
	pdf.Ln(9)

	if len(channels) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No channels measured.", "", "L", false)
		return
	}

	headers := []string{"Target", "Mass", "TOF Window", "Counts", "Median PH", "Mean Pulses", "Mean Int", "Std Int"}
	widths := []float64{30, 18, 26, 24, 20, 22, 20, 20}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, ch := range channels {
		values := []string{
			ch.Target,
			fmt.Sprintf("%.2f", ch.Mass),
			fmt.Sprintf("%d-%d", ch.Low, ch.High),
			strconv.FormatUint(ch.InWindowCounts, 10),
			strconv.Itoa(ch.MedianPulseHeight),
			fmt.Sprintf("%.2f", ch.MeanPixelPulses),
			fmt.Sprintf("%.1f", ch.MeanIntensity),
			fmt.Sprintf("%.1f", ch.StdDevIntensity),
		}
		for i, val := range values {
			pdf.CellFormat(widths[i], 6, val, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}
