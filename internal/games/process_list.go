package games

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessList captures snapshots from the OS process table.
type ProcessList struct {
	listNames func(ctx context.Context) ([]string, error)
}

var _ SnapshotProvider = (*ProcessList)(nil)

// NewProcessList creates a snapshot provider backed by gopsutil
func NewProcessList() *ProcessList {
	return &ProcessList{
		listNames: runningProcessNames,
	}
}

// Capture returns the running executables. A failed listing yields an
// empty snapshot, which callers treat as "no game running".
func (p *ProcessList) Capture(ctx context.Context) Snapshot {
	names, err := p.listNames(ctx)
	if err != nil {
		logger.Debugf(ctx, "unable to list processes: %v", err)
		return Snapshot{}
	}
	return NewSnapshot(names...)
}

func runningProcessNames(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get process list")
	}

	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue // exited or access denied
		}
		names = append(names, name)
	}
	return names, nil
}
