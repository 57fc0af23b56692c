package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	sqlx "github.com/jmoiron/sqlx"

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

	var fovs []FovFiles
	if configuration.Remote {
		fovs, err = remoteFovs(configuration.Fovs)
	} else {
		fovs, err = findBinFiles(configuration.DataDir, configuration.Fovs)
	}
	if err != nil {
		logger.Error(err.Error())
		return
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Number of fovs: %d", len(fovs))
		logger.Info(message, "main")
	}

	if configuration.WriteData {
		if err := os.MkdirAll(configuration.FileOut, 0o755); err != nil {
			message := fmt.Errorf("Error creating output directory: %w", err)
			logger.Error(message.Error())
			return
		}
	}
	if configuration.Remote {
		if err := os.MkdirAll(configuration.CacheDir, 0o755); err != nil {
			message := fmt.Errorf("Error creating cache directory: %w", err)
			logger.Error(message.Error())
			return
		}
	}

	start := time.Now()

	numWorkers := configuration.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	jobs := make(chan FovFiles, len(fovs))
	results := make(chan FovResult, len(fovs))
	for w := 1; w <= numWorkers; w++ {
		go worker(w, panel, jobs, results)
	}
	go sendFovsToWorkers(fovs, jobs)
	processWorkerResults(results, len(fovs))

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
