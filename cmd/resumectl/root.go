package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"resume-builder/internal/editor"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/resume/render"
)

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	cfg    config.Config
	out    io.Writer
	errOut io.Writer

	// Overridable in tests.
	store    editor.SnapshotStore
	saver    editor.Saver
	exporter resumes.PDFExporter

	ctrl       *editor.Controller
	closeStore func() error
}

func newRootCmd(app *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "resumectl",
		Short:         "Edit and publish a resume from the terminal",
		Long:          "resumectl keeps a local working copy of a resume, renders it with the built-in templates and saves it to the resume API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return app.close(cmd.Context())
		},
	}
	root.SetOut(app.out)
	root.SetErr(app.errOut)
	root.SetContext(context.Background())

	root.AddCommand(
		newShowCmd(app),
		newSetCmd(app),
		newExperienceCmd(app),
		newEducationCmd(app),
		newSkillCmd(app),
		newCustomizeCmd(app),
		newApplyCmd(app),
		newSaveCmd(app),
		newResetCmd(app),
		newRenderCmd(app),
		newExportPDFCmd(app),
	)
	return root
}

func (app *cli) open(ctx context.Context) error {
	if app.store == nil {
		store, closeStore, err := openStore(ctx, app.cfg)
		if err != nil {
			return err
		}
		app.store = store
		app.closeStore = closeStore
	}
	if app.saver == nil {
		app.saver = editor.NewAPIClient(app.cfg.APIBaseURL)
	}
	app.ctrl = editor.Open(ctx, editor.Options{
		Store:  app.store,
		Saver:  app.saver,
		Window: app.cfg.DebounceWindow,
		OnWarning: func(w *editor.HydrationError) {
			fmt.Fprintf(app.errOut, "warning: %v\n", w)
		},
	})
	return nil
}

func (app *cli) close(ctx context.Context) error {
	var err error
	if app.ctrl != nil {
		err = app.ctrl.Close(ctx)
	}
	if app.closeStore != nil {
		if cerr := app.closeStore(); err == nil {
			err = cerr
		}
	}
	return err
}

func (app *cli) pdfExporter() resumes.PDFExporter {
	if app.exporter != nil {
		return app.exporter
	}
	return render.NewChromeExporter(app.cfg.ChromePath)
}

func openStore(ctx context.Context, cfg config.Config) (editor.SnapshotStore, func() error, error) {
	switch cfg.SnapshotDriver {
	case config.SnapshotDriverSQLite:
		store, err := editor.OpenSQLiteStore(ctx, filepath.Join(cfg.SnapshotDir, "snapshots.db"))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return editor.NewFileStore(cfg.SnapshotDir), nil, nil
	}
}
