package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/rpattn/metacat/internal/config"
	"github.com/rpattn/metacat/internal/domain"
	"github.com/rpattn/metacat/internal/manager"
	"github.com/rpattn/metacat/internal/storage"
	"github.com/rpattn/metacat/internal/view"
)

// app wires one command invocation: configuration, logger, storage
// locations, and the manager on top of them.
type app struct {
	cfg     config.Config
	logger  *zap.SugaredLogger
	manager *manager.Manager
	out     io.Writer

	pg *storage.Postgres
	rd *storage.Redis
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	var logger *zap.Logger
	if debug || cfg.Debug {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		logger, err = z.Build()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger.Sugar(), out: os.Stdout}

	store, err := a.location(ctx, cfg.Store)
	if err != nil {
		a.Close()
		return nil, err
	}
	stash, err := a.location(ctx, cfg.Stash)
	if err != nil {
		a.Close()
		return nil, err
	}

	m := manager.New(store, stash, a.logger)
	m.Confirm = confirmHook()
	a.manager = m
	return a, nil
}

// location resolves one configured location to an adapter plus address.
// Postgres and redis connections are shared when both locations use the same
// backend.
func (a *app) location(ctx context.Context, lc config.LocationConfig) (manager.Location, error) {
	switch lc.Backend {
	case config.BackendFilesystem:
		return manager.Location{Adapter: storage.NewFilesystem(), Address: lc.Path}, nil
	case config.BackendPostgres:
		if a.pg == nil {
			pg, err := storage.NewPostgres(ctx, a.cfg.Postgres)
			if err != nil {
				return manager.Location{}, err
			}
			a.pg = pg
		}
		return manager.Location{Adapter: a.pg, Address: lc.Path}, nil
	case config.BackendRedis:
		if a.rd == nil {
			rd, err := storage.NewRedis(a.cfg.Redis)
			if err != nil {
				return manager.Location{}, err
			}
			a.rd = rd
		}
		return manager.Location{Adapter: a.rd, Address: lc.Path}, nil
	}
	return manager.Location{}, fmt.Errorf("unknown backend %q", lc.Backend)
}

func (a *app) Close() {
	if a.pg != nil {
		a.pg.Close()
	}
	if a.rd != nil {
		_ = a.rd.Close()
	}
	_ = a.logger.Sync()
}

func (a *app) loadWorkspace(ctx context.Context) error {
	src, err := manager.ParseSource(sourceName)
	if err != nil {
		return err
	}
	return a.manager.LoadWorkspace(ctx, src)
}

// persistWorkspace writes the workspace back to the location it was loaded
// from. Without this a committed mutation would die with the process.
func (a *app) persistWorkspace(ctx context.Context) error {
	src, err := manager.ParseSource(sourceName)
	if err != nil {
		return err
	}
	if src == manager.SourceStash {
		tx, err := a.manager.StashWorkspace(ctx)
		if err != nil {
			return err
		}
		return a.reportTx(tx, fmt.Sprintf("workspace stashed at %q", a.cfg.Stash.Path))
	}
	tx, err := a.manager.StoreWorkspace(ctx)
	if err != nil {
		return err
	}
	return a.reportTx(tx, fmt.Sprintf("workspace stored at %q", a.cfg.Store.Path))
}

// reportTx renders a transaction receipt and maps non-committed outcomes to
// an error so the process exit code reflects them.
func (a *app) reportTx(tx *manager.TxResult, success string) error {
	switch {
	case tx.Committed:
		view.WriteSuccess(a.out, fmt.Sprintf("%s (tx %s)", success, tx.ID), color.NoColor)
		return nil
	case tx.Declined:
		fmt.Fprintln(a.out, "aborted")
		return nil
	case tx.Dependents != nil:
		view.WriteDependents(a.out, tx.Dependents, color.NoColor)
		return fmt.Errorf("refused: %w", domain.ErrHasDependents)
	case tx.Result != nil:
		view.WriteResult(a.out, *tx.Result, color.NoColor)
		return errors.New("entity failed validation")
	case tx.Report != nil:
		view.WriteReport(a.out, tx.Report, color.NoColor)
		return errors.New("workspace failed validation")
	}
	return nil
}

// confirmHook is the manager's interactive gate: a survey prompt, or an
// always-yes stub under --yes.
func confirmHook() manager.ConfirmFunc {
	if assumeYes {
		return func(string) (bool, error) { return true, nil }
	}
	return func(prompt string) (bool, error) {
		ok := false
		q := &survey.Confirm{Message: prompt}
		if err := survey.AskOne(q, &ok); err != nil {
			return false, err
		}
		return ok, nil
	}
}

// readRecordFile reads one authored entity definition as a raw record.
func readRecordFile(path string) (domain.Record, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entity file: %w", err)
	}
	var rec domain.Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse entity file: %w", err)
	}
	return rec, nil
}
