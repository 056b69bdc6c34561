package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/packscheduler/internal/auth"
	"github.com/zjrosen/packscheduler/internal/directory"
	"github.com/zjrosen/packscheduler/internal/flags"
	"github.com/zjrosen/packscheduler/internal/infrastructure/sqlite"
	"github.com/zjrosen/packscheduler/internal/log"
	"github.com/zjrosen/packscheduler/internal/registration"
	"github.com/zjrosen/packscheduler/internal/tracing"
)

// termEnv is everything a command needs to work on the configured term.
type termEnv struct {
	manager *registration.Manager
	flags   *flags.Registry
	tracing *tracing.Provider
}

// openTerm wires the manager from cfg. Records are loaded from the flat
// files when loadRecords is set; otherwise the term starts empty.
func openTerm(ctx context.Context, loadRecords bool) (*termEnv, error) {
	tracingCfg := cfg.Tracing
	if tracingCfg.FilePath == "" {
		tracingCfg.FilePath = cfg.Resolve("traces.jsonl")
	}
	provider, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	registrar, err := cfg.Registrar.BuildRegistrar()
	if err != nil {
		return nil, err
	}

	featureFlags := flags.New(cfg.Flags)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	mcfg := registration.Config{
		Registrar: registrar,
		Verifier:  hasher,
		Catalog:   directory.NewCatalog(),
		Students:  directory.NewStudentDirectory(hasher),
		Faculty:   directory.NewFacultyDirectory(hasher),
		Sessions:  auth.NewInMemorySessions(cfg.Session.TTL),
		Tracer:    provider.Tracer(),
	}
	if featureFlags.Enabled(flags.FlagRehashPasswords) {
		mcfg.Rehasher = hasher
	}
	manager, err := registration.NewManager(mcfg)
	if err != nil {
		return nil, err
	}

	env := &termEnv{manager: manager, flags: featureFlags, tracing: provider}
	if loadRecords {
		if err := manager.LoadRecords(ctx, env.records()); err != nil {
			env.Close()
			return nil, fmt.Errorf("loading records: %w", err)
		}
	}
	return env, nil
}

func (e *termEnv) records() registration.Records {
	return registration.Records{
		Courses:  cfg.CoursesPath(),
		Students: cfg.StudentsPath(),
		Faculty:  cfg.FacultyPath(),
	}
}

// Close flushes pending spans.
func (e *termEnv) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.tracing.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "Failed to flush spans", err)
	}
}

// snapshot captures the term under the manager's lock.
func (e *termEnv) snapshot() sqlite.Term {
	var term sqlite.Term
	e.manager.Locked(func() {
		term = sqlite.Term{
			Courses:  e.manager.Catalog().Courses(),
			Students: e.manager.Students().Students(),
			Faculty:  e.manager.Faculty().Faculty(),
		}
	})
	return term
}

// restore replaces the manager's term with one loaded from the store.
func (e *termEnv) restore(ctx context.Context, term *sqlite.Term) error {
	e.manager.ClearData(ctx)

	var err error
	e.manager.Locked(func() {
		for _, f := range term.Faculty {
			if _, err = e.manager.Faculty().AddFaculty(f); err != nil {
				return
			}
		}
		for _, s := range term.Students {
			if _, err = e.manager.Students().AddStudent(s); err != nil {
				return
			}
		}
		for _, c := range term.Courses {
			if _, err = e.manager.Catalog().AddCourse(c); err != nil {
				return
			}
		}
	})
	if err != nil {
		return fmt.Errorf("restoring term: %w", err)
	}
	log.Info(log.CatDB, "Term restored", "courses", len(term.Courses), "students", len(term.Students), "faculty", len(term.Faculty))
	return nil
}

// openStore opens the SQLite term store at the configured path.
func openStore() (*sqlite.DB, error) {
	db, err := sqlite.NewDB(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("opening term store: %w", err)
	}
	return db, nil
}

// loadStoredTerm opens the store and restores its term into env.
func (e *termEnv) loadStoredTerm(ctx context.Context) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	term, err := db.TermStore().Load(ctx)
	if err != nil {
		return fmt.Errorf("loading stored term: %w", err)
	}
	return e.restore(ctx, term)
}

// saveStoredTerm writes env's term to the store and returns the snapshot id.
func (e *termEnv) saveStoredTerm(ctx context.Context) (string, error) {
	db, err := openStore()
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	id, err := db.TermStore().Save(ctx, e.snapshot())
	if err != nil {
		return "", fmt.Errorf("saving term: %w", err)
	}
	return id, nil
}
