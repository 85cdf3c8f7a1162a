package pkg

import (
	"fmt"
)

// Placement is the resolved decision for one file: where it goes and whether
// it is copied or moved. Metadata is nil for non-media placements.
type Placement struct {
	Source      string
	Destination string
	Copy        bool
	Metadata    *CaptureMetadata
	Camera      string
}

// Dispatcher turns one candidate file path into a Placement by running the
// classification, metadata resolution, and path planning steps in order. It
// does not touch the file itself; executing the placement is the caller's
// job.
type Dispatcher struct {
	cfg Config
}

// NewDispatcher returns a dispatcher for the given configuration.
func NewDispatcher(cfg Config) *Dispatcher {
	return &Dispatcher{cfg: cfg}
}

// Plan produces the placement for path, or (nil, nil) when the file should be
// skipped with no placement at all. An error means this file failed and
// should be left untouched; it never implicates other files.
func (d *Dispatcher) Plan(path string) (*Placement, error) {
	mediaType := ClassifyFile(path)

	if !mediaType.IsMedia() {
		if d.cfg.CopyFiles {
			// Copy mode leaves unrecognized files alone.
			return nil, nil
		}
		return &Placement{
			Source:      path,
			Destination: UnknownDestination(d.cfg.DestinationDir, path),
			Copy:        false,
		}, nil
	}

	meta, err := ResolveCapture(path, d.cfg.PreferModifiedTime)
	if err != nil {
		return nil, fmt.Errorf("failed to extract date from %s: %w", path, err)
	}

	camera := d.cameraIdentity(path)

	dest, err := PlanDestination(d.cfg.DestinationDir, meta.Timestamp, camera, path, d.cfg.KeepNames, d.cfg.CameraPrefix)
	if err != nil {
		return nil, err
	}

	return &Placement{
		Source:      path,
		Destination: dest,
		Copy:        d.cfg.CopyFiles,
		Metadata:    &meta,
		Camera:      camera,
	}, nil
}

// cameraIdentity applies the precedence manual override > EXIF extraction >
// disabled. The empty string disables camera grouping in the planner.
func (d *Dispatcher) cameraIdentity(path string) string {
	if d.cfg.ManualCamera != "" {
		return d.cfg.ManualCamera
	}
	if d.cfg.CameraGrouping {
		return ResolveCamera(path)
	}
	return ""
}
