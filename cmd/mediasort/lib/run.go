// Package mediasort is the application layer of the media sorter: it walks
// directories, executes placements, and reports results. The per-file
// decision making lives in the pkg package.
package mediasort

import (
	"github.com/rs/zerolog/log"

	"github.com/user/media-sorter/pkg"
)

// Summary counts the outcomes of one processing pass.
type Summary struct {
	Processed int // files examined
	Placed    int // files copied or moved
	Skipped   int // files intentionally left alone
	Failed    int // files that errored and stayed in the source tree
}

type fileResult int

const (
	resultPlaced fileResult = iota
	resultSkipped
	resultFailed
)

func (s *Summary) record(r fileResult) {
	s.Processed++
	switch r {
	case resultPlaced:
		s.Placed++
	case resultSkipped:
		s.Skipped++
	case resultFailed:
		s.Failed++
	}
}

// Run performs a one-shot pass over the source tree: every regular file is
// dispatched, placements are executed, and emptied source directories are
// cleaned up afterwards. Per-file failures are logged as warnings and never
// abort the pass.
func Run(cfg pkg.Config) (Summary, error) {
	log.Info().Str("source", cfg.SourceDir).Msg("processing directory")

	files, err := pkg.ScanSourceDirectory(cfg.SourceDir)
	if err != nil {
		return Summary{}, err
	}

	dispatcher := pkg.NewDispatcher(cfg)
	var summary Summary
	for _, file := range files {
		summary.record(processFile(dispatcher, file))
	}

	if err := pkg.DeleteEmptyFolders(cfg.SourceDir); err != nil {
		log.Warn().Err(err).Str("source", cfg.SourceDir).Msg("failed to clean up empty folders")
	}

	log.Info().
		Int("processed", summary.Processed).
		Int("placed", summary.Placed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("directory processing complete")
	return summary, nil
}

// processFile plans and executes the placement of a single file. Errors are
// isolated to this file.
func processFile(dispatcher *pkg.Dispatcher, path string) fileResult {
	placement, err := dispatcher.Plan(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("failed to process file")
		return resultFailed
	}
	if placement == nil {
		log.Debug().Str("file", path).Msg("skipping file, no destination determined")
		return resultSkipped
	}

	if placement.Metadata != nil {
		log.Debug().
			Str("file", path).
			Time("captured", placement.Metadata.Timestamp).
			Stringer("dateSource", placement.Metadata.Source).
			Str("camera", placement.Camera).
			Msg("resolved media file")
	}

	verb := "moving"
	if placement.Copy {
		verb = "copying"
	}
	log.Info().
		Str("source", placement.Source).
		Str("destination", placement.Destination).
		Msgf("%s file", verb)

	if err := pkg.ExecutePlacement(placement); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("failed to place file")
		return resultFailed
	}
	return resultPlaced
}
