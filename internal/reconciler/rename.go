package reconciler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"photo-renamer/internal/config"
	"photo-renamer/internal/filename"
	"photo-renamer/internal/logger"

	"github.com/sirupsen/logrus"
)

// ErrTargetExists is returned when a rename would overwrite another file.
var ErrTargetExists = errors.New("target file already exists")

// Reasons a plan entry is skipped.
const (
	SkipNoDate       = "no capture date"
	SkipAlreadyNamed = "already named"
)

// RenameOp is one entry of a RenamePlan.
type RenameOp struct {
	OldPath string
	NewName string
	Date    string
	Skip    bool
	Reason  string
}

// OldName returns the base name of the file before renaming.
func (op RenameOp) OldName() string {
	return filepath.Base(op.OldPath)
}

// NewPath returns the destination path within the same directory.
func (op RenameOp) NewPath() string {
	return filepath.Join(filepath.Dir(op.OldPath), op.NewName)
}

// RenamePlan is the ordered list of renames for one directory.
type RenamePlan struct {
	Ops []RenameOp
}

// Pending returns the entries that would change a filename.
func (p RenamePlan) Pending() []RenameOp {
	var ops []RenameOp
	for _, op := range p.Ops {
		if !op.Skip {
			ops = append(ops, op)
		}
	}
	return ops
}

// PlanRenames orders files by capture date and proposes "YYYYMMDD[_N]" names.
// Ties get an increasing suffix in listing order. A proposed name that is
// held by any scanned file moves to the next free suffix, so the plan never
// yields two identical names and never depends on the order renames apply in.
func (r *Reconciler) PlanRenames(files []MediaFile) RenamePlan {
	sorted := sortByChosenDate(files)
	ops := make([]RenameOp, len(sorted))

	// current names stay reserved even when their file moves later in the plan
	used := make(map[string]struct{}, len(sorted))
	for i, f := range sorted {
		ops[i] = RenameOp{OldPath: f.Path, Date: f.ChosenTakenDate}
		switch {
		case f.Unprocessable || f.ChosenTakenDate == "":
			ops[i].Skip, ops[i].Reason = true, SkipNoDate
		case r.alreadyNamed(f):
			ops[i].Skip, ops[i].Reason = true, SkipAlreadyNamed
		}
		used[strings.ToLower(f.Name)] = struct{}{}
	}

	prevDate := ""
	counter := 0
	for i, f := range sorted {
		if ops[i].Reason == SkipNoDate {
			continue
		}
		if f.ChosenTakenDate == prevDate {
			counter++
		} else {
			counter = 0
		}
		prevDate = f.ChosenTakenDate

		if ops[i].Skip {
			continue
		}

		ext := filepath.Ext(f.Name)
		name := proposedStem(f.ChosenTakenDate, counter) + ext
		for {
			if _, taken := used[strings.ToLower(name)]; !taken {
				break
			}
			counter++
			name = proposedStem(f.ChosenTakenDate, counter) + ext
		}
		if counter > 0 {
			r.stats.IncrementSuffixed()
		}
		used[strings.ToLower(name)] = struct{}{}
		ops[i].NewName = name
	}

	return RenamePlan{Ops: ops}
}

// ApplyRenames performs the plan. Each failure is logged and the loop moves on;
// a partially applied plan is a normal outcome.
func (r *Reconciler) ApplyRenames(entry *logrus.Entry, plan RenamePlan) {
	for _, op := range plan.Ops {
		fileLog := logger.WithFile(entry, op.OldPath)

		if op.Skip {
			if op.Reason == SkipNoDate {
				r.stats.IncrementSkippedNoDate()
			} else {
				r.stats.IncrementAlreadyNamed()
			}
			fileLog.Debugf("Skipping %s: %s", op.OldName(), op.Reason)
			continue
		}

		if r.config.Rename.DryRun {
			r.stats.IncrementSimulated()
			fileLog.Infof("DRY-RUN: Would rename %s -> %s", op.OldName(), op.NewName)
			continue
		}

		if err := renameNoClobber(op.OldPath, op.NewPath()); err != nil {
			if errors.Is(err, ErrTargetExists) {
				r.stats.IncrementCollisions()
			}
			r.stats.IncrementRenameErrors()
			r.stats.AddError(op.OldPath, "rename", err.Error())
			fileLog.Errorf("Could not rename %s to %s: %v", op.OldName(), op.NewName, err)
			continue
		}

		r.stats.IncrementRenamed()
		fmt.Fprintf(r.out, "Renamed: %s -> %s\n", op.OldName(), op.NewName)
		fileLog.Infof("Renamed file: %s -> %s", op.OldName(), op.NewName)
	}
}

// RunRename scans, plans and applies renames. The only error is a bad directory.
func (r *Reconciler) RunRename() (RenamePlan, error) {
	entry := logger.NewRun(r.logger, "rename")
	if r.config.Rename.DryRun {
		entry.Info("Running in dry-run mode - no files will be renamed")
	}

	files, err := r.Scan(entry)
	if err != nil {
		return RenamePlan{}, err
	}

	r.Prepare(entry, files)
	plan := r.PlanRenames(files)
	r.ApplyRenames(entry, plan)
	r.stats.Finalize()

	entry.Infof("Rename completed: %d pending in plan", len(plan.Pending()))
	return plan, nil
}

// alreadyNamed decides whether a file keeps its name under the configured rule.
func (r *Reconciler) alreadyNamed(f MediaFile) bool {
	if r.config.Rename.SkipRule == config.SkipRuleFilenameDate {
		return filename.ExtractDate(f.Name) == f.ChosenTakenDate
	}
	// the first "_" token of a proposed stem is always the bare date
	return filename.FirstToken(filename.Stem(f.Name), "_") == f.ChosenTakenDate
}

func proposedStem(date string, counter int) string {
	if counter == 0 {
		return date
	}
	return fmt.Sprintf("%s_%d", date, counter)
}

// renameNoClobber renames within a directory, refusing to replace a different file.
func renameNoClobber(oldPath, newPath string) error {
	if existing, err := os.Lstat(newPath); err == nil {
		current, statErr := os.Lstat(oldPath)
		// a case-only rename on a case-insensitive volume sees itself
		if statErr != nil || !os.SameFile(existing, current) {
			return fmt.Errorf("%w: %s", ErrTargetExists, filepath.Base(newPath))
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.Rename(oldPath, newPath)
}
