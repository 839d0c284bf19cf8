package store

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dhamidi/appclassdoc/appclass"
	"github.com/dhamidi/appclassdoc/format"
)

// Run describes one stored documentation run.
type Run struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Classes    int
	Failures   int
}

// Package is one entry of a stored package index.
type Package struct {
	Name    string
	Level   int
	Classes []appclass.ClassDescr
}

// Save stores a resolved corpus under a fresh run identifier and returns
// the run. Start time, root and failure count come from info; the class
// count and finish time are filled in.
func (s *Store) Save(ctx context.Context, corpus *appclass.Corpus, info Run) (Run, error) {
	run := info
	run.ID = uuid.NewString()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.FinishedAt = time.Now()
	classes := corpus.Classes()
	run.Classes = len(classes)

	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, root, started_at, finished_at, classes, failures) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, run.Root, formatTime(run.StartedAt), formatTime(run.FinishedAt), run.Classes, run.Failures)
		if err != nil {
			return errors.Wrap(err, "inserting run")
		}

		for _, name := range corpus.Packages() {
			level := strings.Count(name, appclass.Separator) + 1
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO packages (run_id, name, level) VALUES (?, ?, ?)`,
				run.ID, name, level); err != nil {
				return errors.Wrapf(err, "inserting package %s", name)
			}
		}

		for _, cls := range classes {
			if err := saveClass(ctx, tx, run.ID, cls); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, err
	}

	log.Infof("saved run %s: %d classes", run.ID, run.Classes)
	return run, nil
}

func saveClass(ctx context.Context, tx *sql.Tx, runID string, cls *appclass.Class) error {
	var doc bytes.Buffer
	if err := format.NewJSONEncoder(&doc).Encode(cls); err != nil {
		return errors.Wrapf(err, "encoding %s", cls.FQN())
	}
	summary := ""
	if cls.Doc != nil {
		summary = cls.Doc.Summary
	}

	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO classes (run_id, fqn, package, name, kind, abstract, source_file, summary, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, cls.FQN(), cls.PackageName(), cls.Name(), string(cls.Kind), cls.IsAbstract,
		cls.SourceFile, summary, doc.String())
	if err != nil {
		return errors.Wrapf(err, "inserting class %s", cls.FQN())
	}

	for _, sub := range cls.Subclasses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subclasses (run_id, parent, package, name, kind) VALUES (?, ?, ?, ?, ?)`,
			runID, cls.FQN(), sub.PackageName(), sub.Name, string(sub.Kind)); err != nil {
			return errors.Wrapf(err, "inserting subclass of %s", cls.FQN())
		}
	}
	return nil
}

// Runs lists the stored runs, most recent first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, root, started_at, finished_at, classes, failures FROM runs ORDER BY finished_at DESC, id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, errors.Wrap(rows.Err(), "listing runs")
}

// LatestRun returns the most recent run, or ErrRunNotFound on an empty
// database.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	runs, err := s.Runs(ctx)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrRunNotFound
	}
	return runs[0], nil
}

func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, root, started_at, finished_at, classes, failures FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, errors.Wrapf(ErrRunNotFound, "run %s", id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var started, finished string
	if err := row.Scan(&run.ID, &run.Root, &started, &finished, &run.Classes, &run.Failures); err != nil {
		return Run{}, err
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return run, nil
}

// Packages returns the package index of a run: package names sorted
// case-insensitively, each with its classes sorted by name.
func (s *Store) Packages(ctx context.Context, runID string) ([]Package, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT p.name, p.level, c.name, c.kind
		 FROM packages p JOIN classes c ON c.run_id = p.run_id AND c.package = p.name
		 WHERE p.run_id = ?
		 ORDER BY lower(p.name), p.name, lower(c.name), c.name`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "reading package index")
	}
	defer rows.Close()

	var packages []Package
	for rows.Next() {
		var pkg, name, kind string
		var level int
		if err := rows.Scan(&pkg, &level, &name, &kind); err != nil {
			return nil, errors.Wrap(err, "reading package index")
		}
		if len(packages) == 0 || packages[len(packages)-1].Name != pkg {
			packages = append(packages, Package{Name: pkg, Level: level})
		}
		last := &packages[len(packages)-1]
		last.Classes = append(last.Classes, appclass.ClassDescr{
			Package: strings.Split(pkg, appclass.Separator),
			Name:    name,
			Kind:    appclass.Kind(kind),
		})
	}
	return packages, errors.Wrap(rows.Err(), "reading package index")
}

// Subclasses returns the subclasses stored for a class of a run, sorted
// by name.
func (s *Store) Subclasses(ctx context.Context, runID, fqn string) ([]appclass.ClassDescr, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT package, name, kind FROM subclasses
		 WHERE run_id = ? AND parent = ?
		 ORDER BY lower(name), lower(package)`, runID, fqn)
	if err != nil {
		return nil, errors.Wrapf(err, "reading subclasses of %s", fqn)
	}
	defer rows.Close()

	var descrs []appclass.ClassDescr
	for rows.Next() {
		var pkg, name, kind string
		if err := rows.Scan(&pkg, &name, &kind); err != nil {
			return nil, errors.Wrapf(err, "reading subclasses of %s", fqn)
		}
		descrs = append(descrs, appclass.ClassDescr{
			Package: strings.Split(pkg, appclass.Separator),
			Name:    name,
			Kind:    appclass.Kind(kind),
		})
	}
	return descrs, errors.Wrapf(rows.Err(), "reading subclasses of %s", fqn)
}

// Document returns the stored JSON document of a class. The name is
// matched ignoring case.
func (s *Store) Document(ctx context.Context, runID, fqn string) ([]byte, error) {
	var doc string
	err := s.conn.QueryRowContext(ctx,
		`SELECT document FROM classes WHERE run_id = ? AND lower(fqn) = lower(?)`, runID, fqn).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Newf("class %s not found in run %s", fqn, runID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fqn)
	}
	return []byte(doc), nil
}

// DeleteRun removes a run and everything stored with it.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"subclasses", "classes", "packages"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, runID); err != nil {
				return errors.Wrapf(err, "deleting %s of run %s", table, runID)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
		if err != nil {
			return errors.Wrapf(err, "deleting run %s", runID)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errors.Wrapf(ErrRunNotFound, "run %s", runID)
		}
		return nil
	})
}

// timeLayout has a fixed width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		log.Warningf("bad timestamp %q in database", s)
		return time.Time{}
	}
	return t
}
