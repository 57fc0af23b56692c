package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	sqlx "github.com/jmoiron/sqlx"
	"gonum.org/v1/gonum/stat"

	mibi "github.com/christianrickert/mibi-bin-tools/pkg"
)

var dbConn *sqlx.DB
var configuration mibi.Configuration

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	if err := setupLogging(configuration); err != nil {
		logger.Error(err.Error())
		return
	}
	mibi.SetConfiguration(configuration)
	mibi.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	panel, err := loadPanel()
	if err != nil {
		logger.Error(err.Error())
		return
	}

	fovs, err := findBinFiles(configuration.DataDir, configuration.Fovs)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Number of fovs: %d", len(fovs))
		logger.Info(message, "main")
	}

	if err := os.MkdirAll(configuration.ReportOut, 0o755); err != nil {
		message := fmt.Errorf("Error creating report directory: %w", err)
		logger.Error(message.Error())
		return
	}
	if configuration.WriteData {
		if err := os.MkdirAll(configuration.FileOut, 0o755); err != nil {
			message := fmt.Errorf("Error creating output directory: %w", err)
			logger.Error(message.Error())
			return
		}
	}

	start := time.Now()
	for _, fov := range fovs {
		fovStart := time.Now()
		qc, err := analyzeFov(fov, panel)
		if err != nil {
			message := fmt.Errorf("Error analyzing fov %s: %w", fov.Name, err)
			logger.Error(message.Error())
			continue
		}
		reportPath := filepath.Join(configuration.ReportOut, fov.Name+".pdf")
		if err := SaveQCReport(qc, reportPath); err != nil {
			message := fmt.Errorf("Error writing report for fov %s: %w", fov.Name, err)
			logger.Error(message.Error())
			continue
		}
		fmt.Printf("Fov %s: %d channels, %d counts, %d ms\n",
			fov.Name, len(qc.Channels), qc.TotalCounts, time.Since(fovStart).Milliseconds())
	}
	duration := time.Since(start)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}

// loadPanel resolves the shared panel for file and database sources. In
// metadata mode each fov derives its own panel from its json twin, so the
// shared panel stays empty.
func loadPanel() (mibi.Panel, error) {
	switch configuration.PanelSource {
	case mibi.PanelFromFile:
		return mibi.LoadPanelFile(configuration.PanelFile)
	case mibi.PanelFromDB:
		if configuration.NoDB {
			return mibi.Panel{}, fmt.Errorf("panel_source is database but no_db is set")
		}
		var err error
		dbConn, err = mibi.ConnectToDatabase(configuration.User, configuration.Passwd,
			configuration.Host, configuration.DBName)
		if err != nil {
			return mibi.Panel{}, fmt.Errorf("Error connecting to database: %w", err)
		}
		defer dbConn.Close()
		return mibi.GetPanelFromDB(dbConn, configuration.RunNumber)
	default:
		return mibi.Panel{}, nil
	}
}

// analyzeFov measures one fov channel by channel and collects the results
// for reporting.
func analyzeFov(fov FovFiles, panel mibi.Panel) (FovQC, error) {
	binPath := filepath.Join(configuration.DataDir, fov.Bin)

	meta, err := mibi.LoadFovMetadata(filepath.Join(configuration.DataDir, fov.Json))
	if err != nil {
		return FovQC{}, err
	}
	if configuration.PanelSource == mibi.PanelFromMetadata {
		panel = mibi.GlobalPanel(meta, configuration.PanelLowOffset, configuration.PanelHighOffset)
	}
	panel = panel.Filter(configuration.Channels)
	panel.Sort()
	windows := panel.ToWindows(meta.Calibration, configuration.TimeResolution,
		configuration.Intensities, configuration.AllIntensities)

	hdr, err := mibi.ReadFileHeader(binPath)
	if err != nil {
		return FovQC{}, err
	}
	total, err := mibi.TotalCounts(binPath)
	if err != nil {
		return FovQC{}, err
	}

	qc := FovQC{
		Name:        fov.Name,
		RunNumber:   configuration.RunNumber,
		ReportID:    uuid.New().String(),
		Header:      hdr,
		TotalCounts: total,
	}
	for i, row := range panel.Rows {
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Measuring channel %s of fov %s", row.Target, fov.Name)
			logger.Info(message, "qc")
		}
		ch, err := analyzeChannel(binPath, fov.Name, row, windows.Lows[i], windows.Highs[i], hdr)
		if err != nil {
			return FovQC{}, err
		}
		qc.Channels = append(qc.Channels, ch)
	}
	return qc, nil
}

// analyzeChannel measures one panel channel with two extra passes over the
// bin file, one for the histograms and one for the pulse statistics.
func analyzeChannel(binPath string, fovName string, row mibi.PanelRow, low, high uint16, hdr mibi.FileHeader) (ChannelResult, error) {
	hist, err := mibi.ExtractHistograms(binPath, low, high)
	if err != nil {
		return ChannelResult{}, err
	}
	stats, err := mibi.ExtractPulseStats(binPath, low, high)
	if err != nil {
		return ChannelResult{}, err
	}

	var counts uint64
	for _, c := range hist.Widths {
		counts += c
	}
	mean, std := intensitySummary(hist)

	result := ChannelResult{
		Target:            row.Target,
		Mass:              row.Mass,
		Low:               low,
		High:              high,
		InWindowCounts:    counts,
		MedianPulseHeight: stats.MedianPulseHeight,
		MeanPixelPulses:   stats.MeanPositivePixelPulses,
		MeanIntensity:     mean,
		StdDevIntensity:   std,
	}
	if configuration.WriteData {
		if err := writeChannelData(fovName, row.Target, hdr, hist, stats, counts); err != nil {
			return ChannelResult{}, err
		}
	}
	return result, nil
}

// intensitySummary reduces the intensity histogram to its weighted mean and
// standard deviation. A single pulse has no spread, so the deviation is
// reported as zero below two counts.
func intensitySummary(hist *mibi.Histograms) (float64, float64) {
	xs := make([]float64, len(hist.Intensities))
	ws := make([]float64, len(hist.Intensities))
	var total float64
	for i, c := range hist.Intensities {
		xs[i] = float64(i)
		ws[i] = float64(c)
		total += float64(c)
	}
	if total == 0 {
		return 0, 0
	}
	if total < 2 {
		return stat.Mean(xs, ws), 0
	}
	return stat.Mean(xs, ws), stat.StdDev(xs, ws)
}

func writeChannelData(fovName string, target string, hdr mibi.FileHeader, hist *mibi.Histograms, stats mibi.PulseStats, counts uint64) error {
	fname := filepath.Join(configuration.FileOut, fmt.Sprintf("%s_%s.h5", fovName, target))
	writer, err := mibi.NewQCWriter(fname)
	if err != nil {
		return err
	}
	if err := writer.WriteRunInfo(fovName, configuration.RunNumber, hdr); err != nil {
		writer.Close()
		return err
	}
	if err := writer.WriteHistograms(hist); err != nil {
		writer.Close()
		return err
	}
	if err := writer.WriteStats(stats, counts); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
