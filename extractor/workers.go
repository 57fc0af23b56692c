package main

import (
	"fmt"
	"path/filepath"
	"time"

	mibi "github.com/christianrickert/mibi-bin-tools/pkg"
)

type FovResult struct {
	Name     string
	Header   mibi.FileHeader
	Image    *mibi.ImageData
	Targets  []string
	Error    bool
	Duration time.Duration
}

func worker(id int, panel mibi.Panel, jobs <-chan FovFiles, results chan<- FovResult) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Worker %d recovered from panic: %v\n", id, r)
			results <- FovResult{Error: true}
		}
	}()

	for fov := range jobs {
		if VerbosityLevel > 0 {
			message := fmt.Sprintf("Worker %d extracting fov %s", id, fov.Name)
			logger.Info(message, "worker")
		}
		start := time.Now()
		result, err := extractFov(fov, panel)
		if err != nil {
			message := fmt.Errorf("error extracting fov %s: %w", fov.Name, err)
			logger.Error(message.Error())
			results <- FovResult{Name: fov.Name, Error: true}
			continue
		}
		result.Duration = time.Since(start)
		results <- result
	}
}

func extractFov(fov FovFiles, panel mibi.Panel) (FovResult, error) {
	if configuration.Remote {
		return extractRemoteFov(fov, panel)
	}
	return extractLocalFov(fov, panel)
}

func extractLocalFov(fov FovFiles, panel mibi.Panel) (FovResult, error) {
	meta, err := mibi.LoadFovMetadata(filepath.Join(configuration.DataDir, fov.Json))
	if err != nil {
		return FovResult{}, err
	}
	windows, targets := fovWindows(meta, panel)

	binPath := filepath.Join(configuration.DataDir, fov.Bin)
	var img *mibi.ImageData
	if configuration.Live {
		img, err = mibi.ExtractImageLive(binPath, windows, 0, timeout())
	} else {
		img, err = mibi.ExtractImage(binPath, windows)
	}
	if err != nil {
		return FovResult{}, err
	}

	hdr, err := mibi.ReadFileHeader(binPath)
	if err != nil {
		return FovResult{}, err
	}
	return FovResult{Name: fov.Name, Header: hdr, Image: img, Targets: targets}, nil
}

// extractRemoteFov pairs a background object-store transfer with a live
// decode of the growing cache file. The json metadata is small and is
// waited for up front; the bin decode overlaps its own download.
func extractRemoteFov(fov FovFiles, panel mibi.Panel) (FovResult, error) {
	loc := mibi.RemoteLocation{
		Endpoint:  configuration.Endpoint,
		AccessKey: configuration.AccessKey,
		SecretKey: configuration.SecretKey,
		Bucket:    configuration.Bucket,
		UseSSL:    configuration.UseSSL,
	}

	jsonPath, _, jsonDone, err := mibi.FetchRemote(loc, fov.Json, configuration.CacheDir)
	if err != nil {
		return FovResult{}, err
	}
	if err := <-jsonDone; err != nil {
		return FovResult{}, err
	}
	meta, err := mibi.LoadFovMetadata(jsonPath)
	if err != nil {
		return FovResult{}, err
	}
	windows, targets := fovWindows(meta, panel)

	binPath, expectedSize, binDone, err := mibi.FetchRemote(loc, fov.Bin, configuration.CacheDir)
	if err != nil {
		return FovResult{}, err
	}
	img, err := mibi.ExtractImageLive(binPath, windows, expectedSize, timeout())
	if fetchErr := <-binDone; fetchErr != nil && err == nil {
		err = fetchErr
	}
	if err != nil {
		return FovResult{}, err
	}

	hdr, err := mibi.ReadFileHeader(binPath)
	if err != nil {
		return FovResult{}, err
	}
	return FovResult{Name: fov.Name, Header: hdr, Image: img, Targets: targets}, nil
}

// fovWindows builds the fov's integration windows, using the shared panel
// or, in metadata mode, the fov's own conjugate list.
func fovWindows(meta mibi.FovMetadata, panel mibi.Panel) (mibi.WindowSet, []string) {
	fovPanel := panel
	if configuration.PanelSource == mibi.PanelFromMetadata {
		fovPanel = mibi.GlobalPanel(meta, configuration.PanelLowOffset, configuration.PanelHighOffset)
	}
	fovPanel = fovPanel.Filter(configuration.Channels)
	fovPanel.Sort()
	windows := fovPanel.ToWindows(meta.Calibration, configuration.TimeResolution,
		configuration.Intensities, configuration.AllIntensities)
	return windows, fovPanel.Targets()
}

func timeout() time.Duration {
	return time.Duration(configuration.TimeoutSec) * time.Second
}

func sendFovsToWorkers(fovs []FovFiles, jobs chan<- FovFiles) {
	for _, fov := range fovs {
		jobs <- fov
	}
	close(jobs)
}

func processWorkerResults(results chan FovResult, fovsToProcess int) {
	fovsProcessed := 0
	var totalTime int64 = 0
	for result := range results {
		if configuration.WriteData && !result.Error {
			if err := writeFovResult(result); err != nil {
				logger.Error(err.Error())
			}
		}
		totalTime += result.Duration.Milliseconds()
		fovsProcessed++
		if fovsProcessed >= fovsToProcess {
			break
		}
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Total decode time: %d ms", totalTime)
		logger.Info(message, "main")
	}
}

func writeFovResult(result FovResult) error {
	writer, err := mibi.NewQCWriter(filepath.Join(configuration.FileOut, result.Name+".h5"))
	if err != nil {
		return err
	}
	if err := writer.WriteRunInfo(result.Name, configuration.RunNumber, result.Header); err != nil {
		writer.Close()
		return err
	}
	if err := writer.WriteWindowCounts(result.Image); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
