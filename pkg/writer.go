package mibi

import (
	"errors"
	"fmt"

	hdf5 "gonum.org/v1/hdf5"
)

// QCWriter persists the non-image decode products of one fov: the
// single-window histograms, the pulse statistics, the per-window count
// totals and the run identity.
type QCWriter struct {
	File            *hdf5.File
	Filename        string
	HistogramsGroup *hdf5.Group
	WindowsGroup    *hdf5.Group
	Widths          *hdf5.Dataset
	Intensities     *hdf5.Dataset
	PulseCounts     *hdf5.Dataset
	WindowCounts    *hdf5.Dataset
	RunInfoTable    *hdf5.Table
	StatsTable      *hdf5.Table
}

func NewQCWriter(filename string) (*QCWriter, error) {
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Creating QC file: %s", filename)
		logger.Info(message, "writer")
	}

	writer := &QCWriter{Filename: filename}
	var err error
	writer.File, err = openFile(filename)
	if err != nil {
		return nil, err
	}
	writer.HistogramsGroup, err = createGroup(writer.File, "Histograms")
	if err != nil {
		return nil, err
	}
	writer.WindowsGroup, err = createGroup(writer.File, "Windows")
	if err != nil {
		return nil, err
	}
	writer.Widths, err = createArray(writer.HistogramsGroup, "widths", widthBins)
	if err != nil {
		return nil, err
	}
	writer.Intensities, err = createArray(writer.HistogramsGroup, "intensities", intensityBins)
	if err != nil {
		return nil, err
	}
	writer.PulseCounts, err = createArray(writer.HistogramsGroup, "pulseCounts", pulseCountBins)
	if err != nil {
		return nil, err
	}
	writer.RunInfoTable, err = createTable(writer.File, "runInfo", RunInfoHDF5{})
	if err != nil {
		return nil, err
	}
	writer.StatsTable, err = createTable(writer.File, "pulseStats", PulseStatsHDF5{})
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func (w *QCWriter) WriteRunInfo(fovName string, runNumber int, hdr FileHeader) error {
	row := RunInfoHDF5{
		fov:          convertToHdf5String(fovName),
		run_number:   int32(runNumber),
		num_x:        int32(hdr.NumX),
		num_y:        int32(hdr.NumY),
		num_triggers: int32(hdr.NumTriggers),
		num_frames:   int32(hdr.NumFrames),
	}
	if err := w.RunInfoTable.Append(&row); err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}
	return nil
}

func (w *QCWriter) WriteHistograms(h *Histograms) error {
	if err := w.Widths.Write(&h.Widths); err != nil {
		return fmt.Errorf("error writing width histogram: %w", err)
	}
	if err := w.Intensities.Write(&h.Intensities); err != nil {
		return fmt.Errorf("error writing intensity histogram: %w", err)
	}
	if err := w.PulseCounts.Write(&h.PulseCounts); err != nil {
		return fmt.Errorf("error writing pulse count histogram: %w", err)
	}
	return nil
}

// WriteWindowCounts stores the per-window count totals of an extracted
// image. The dataset is created here because the window count is not
// known until a panel has been applied.
func (w *QCWriter) WriteWindowCounts(img *ImageData) error {
	counts := img.WindowCounts()
	var err error
	w.WindowCounts, err = createArray(w.WindowsGroup, "counts", len(counts))
	if err != nil {
		return err
	}
	if err := w.WindowCounts.Write(&counts); err != nil {
		return fmt.Errorf("error writing window counts: %w", err)
	}
	return nil
}

func (w *QCWriter) WriteStats(stats PulseStats, totalCounts uint64) error {
	row := PulseStatsHDF5{
		median_pulse_height: int32(stats.MedianPulseHeight),
		mean_pp_pulses:      stats.MeanPositivePixelPulses,
		total_counts:        totalCounts,
	}
	if err := w.StatsTable.Append(&row); err != nil {
		return fmt.Errorf("error writing pulse stats: %w", err)
	}
	return nil
}

func (w *QCWriter) Close() error {
	var errs []error

	if w.Widths != nil {
		if err := w.Widths.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing width histogram: %w", err))
		}
	}
	if w.Intensities != nil {
		if err := w.Intensities.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing intensity histogram: %w", err))
		}
	}
	if w.PulseCounts != nil {
		if err := w.PulseCounts.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing pulse count histogram: %w", err))
		}
	}
	if w.WindowCounts != nil {
		if err := w.WindowCounts.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing window counts: %w", err))
		}
	}
	if w.RunInfoTable != nil {
		if err := w.RunInfoTable.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run info table: %w", err))
		}
	}
	if w.StatsTable != nil {
		if err := w.StatsTable.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing stats table: %w", err))
		}
	}
	if w.HistogramsGroup != nil {
		if err := w.HistogramsGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing histograms group: %w", err))
		}
	}
	if w.WindowsGroup != nil {
		if err := w.WindowsGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing windows group: %w", err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file %q: %w", w.Filename, err))
		}
	}
	return errors.Join(errs...)
}
