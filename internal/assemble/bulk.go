package assemble

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/echocapsule/mediakit/internal/enhance"
	"github.com/echocapsule/mediakit/internal/media"
)

// SaveToVault renders one item and hands it to the vault saver, blocking
// until the save is durable.
func (a *Assembler) SaveToVault(ctx context.Context, local *media.Local, st *enhance.State, saver Saver) (Enhanced, error) {
	out, err := a.Render(ctx, local, st)
	if err != nil {
		return Enhanced{}, err
	}

	if err := saver.Save(ctx, out); err != nil {
		return Enhanced{}, fmt.Errorf("%w: %v", ErrBackupFailed, err)
	}

	return out, nil
}

// UseInCapsule runs the bulk carousel action: every item is resolved, items
// with recorded enhancements are rendered, untouched items pass through as
// their original bytes, and the batch is attached to the capsule sink.
//
// When saver is non-nil, each output is backed up to the vault first; a
// backup failure aborts the entire action before anything reaches the sink.
func (a *Assembler) UseInCapsule(ctx context.Context, session *enhance.Session, saver Saver, sink CapsuleSink) ([]Enhanced, error) {
	items := session.Items()

	// Remote resolution fans out; rendering below stays strictly sequential.
	locals := make([]*media.Local, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, h := range items {
		g.Go(func() error {
			local, err := a.loader.Resolve(gctx, h)
			if err != nil {
				return err
			}
			locals[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outputs := make([]Enhanced, 0, len(items))
	for i, local := range locals {
		st := session.StateFor(items[i].ID)

		out, err := a.Render(ctx, local, st)
		if err != nil {
			return nil, fmt.Errorf("render item %d of %d: %w", i+1, len(items), err)
		}
		outputs = append(outputs, out)
	}

	if saver != nil {
		for i, out := range outputs {
			if err := saver.Save(ctx, out); err != nil {
				return nil, fmt.Errorf("%w: item %d of %d: %v", ErrBackupFailed, i+1, len(outputs), err)
			}
		}
	}

	if err := sink.Attach(ctx, outputs); err != nil {
		return nil, fmt.Errorf("attach to capsule: %w", err)
	}

	log.Info().
		Int("items", len(outputs)).
		Bool("backed_up", saver != nil).
		Msg("Carousel batch attached to capsule")

	return outputs, nil
}
