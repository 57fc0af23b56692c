package main

import (
	"encoding/json"
	"fmt"
	"os"

	mibi "github.com/christianrickert/mibi-bin-tools/pkg"
)

func LoadConfiguration(filename string) (mibi.Configuration, error) {
	var config mibi.Configuration

	// Set default values
	config.Verbosity = 0
	config.DataDir = "data"
	config.FileOut = "out"
	config.ReportOut = "reports"
	config.PanelSource = mibi.PanelFromMetadata
	config.RunNumber = 0
	config.NoDB = false
	config.Host = "localhost"
	config.User = "mibireader"
	config.Passwd = "readonly"
	config.DBName = "MibiPanels"
	config.BufferSize = 0
	config.TimeResolution = 500e-6
	config.PanelLowOffset = -0.3
	config.PanelHighOffset = 0.0
	config.WriteData = true
	config.LogMaxSizeMB = 10
	config.LogMaxBackups = 3
	config.LogMaxAgeDays = 28

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func printConfiguration(config mibi.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Data dir: %s", config.DataDir), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Report out: %s", config.ReportOut), "config")
	logger.Info(fmt.Sprintf("Fovs: %v", config.Fovs), "config")
	logger.Info(fmt.Sprintf("Panel source: %s", config.PanelSource), "config")
	logger.Info(fmt.Sprintf("Panel file: %s", config.PanelFile), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Time resolution: %g", config.TimeResolution), "config")
	logger.Info(fmt.Sprintf("Channels: %v", config.Channels), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
}
