package upload

import (
	"context"

	"github.com/romci/cli/internal/artifact"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Uploader pushes a single file somewhere and returns a public URL for it
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Links holds the remote URLs produced for an artifact plan
type Links struct {
	// ROM is the cloud storage link for the ROM archive
	ROM string

	// Auxiliary is the link for the recovery image or install zip, empty
	// when the plan carries no auxiliary artifact
	Auxiliary string

	// OTA is the link for the OTA descriptor, empty when absent or when its
	// upload failed (a warning, never fatal)
	OTA string
}

// Dispatcher routes plan entries to uploaders: the ROM archive to durable
// storage, everything else to the temporary file host.
type Dispatcher struct {
	ROM    Uploader
	Mirror Uploader
	Log    *logrus.Logger
}

// Dispatch uploads every file in the plan concurrently. A failed ROM or
// auxiliary upload fails the dispatch; a failed OTA descriptor upload only
// logs a warning, matching its optional nature.
func (d *Dispatcher) Dispatch(ctx context.Context, plan *artifact.Plan) (*Links, error) {
	links := &Links{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		url, err := d.ROM.Upload(ctx, plan.ROMArchive)
		if err != nil {
			return err
		}
		links.ROM = url
		return nil
	})

	if plan.Auxiliary != artifact.AuxNone && plan.AuxiliaryPath != "" {
		g.Go(func() error {
			url, err := d.Mirror.Upload(ctx, plan.AuxiliaryPath)
			if err != nil {
				return err
			}
			links.Auxiliary = url
			return nil
		})
	}

	if plan.OTADescriptor != "" {
		g.Go(func() error {
			url, err := d.Mirror.Upload(ctx, plan.OTADescriptor)
			if err != nil {
				if d.Log != nil {
					d.Log.WithError(err).Warn("OTA descriptor upload failed, leaving it out")
				}
				return nil
			}
			links.OTA = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return links, nil
}
