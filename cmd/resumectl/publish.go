package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"resume-builder/resume/render"
)

func newSaveCmd(app *cli) *cobra.Command {
	var title, templateID string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the working copy to the resume API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("title") {
				if err := app.ctrl.SetTitle(title); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("template") {
				if err := app.ctrl.SetTemplate(templateID); err != nil {
					return err
				}
			}
			saved, err := app.ctrl.Save(cmd.Context())
			if err != nil {
				return fmt.Errorf("save failed: %w", err)
			}
			fmt.Fprintf(app.out, "saved resume %d\n", saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Resume title")
	cmd.Flags().StringVar(&templateID, "template", "", "Template (modern, classic, creative, minimal)")
	return cmd
}

func newResetCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the working copy and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ctrl.Reset(cmd.Context())
		},
	}
}

func newRenderCmd(app *cli) *cobra.Command {
	var templateID, outPath string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the working copy as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var buf bytes.Buffer
			if err := render.Render(&buf, app.templateOr(templateID), app.ctrl.Data()); err != nil {
				return err
			}
			return app.write(outPath, buf.Bytes())
		},
	}
	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Template override")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newExportPDFCmd(app *cli) *cobra.Command {
	var templateID, outPath string
	cmd := &cobra.Command{
		Use:   "export-pdf",
		Short: "Export the working copy as an A4 PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := app.ctrl.Data()
			var html bytes.Buffer
			if err := render.Render(&html, app.templateOr(templateID), data); err != nil {
				return err
			}
			out, err := app.pdfExporter().Export(cmd.Context(), html.Bytes())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			if outPath == "" {
				outPath = render.PDFFileName(data.Personal.FullName)
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(app.out, outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Template override")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default <name>_Resume.pdf)")
	return cmd
}

func (app *cli) templateOr(templateID string) string {
	if templateID != "" {
		return templateID
	}
	return app.ctrl.Template()
}

func (app *cli) write(path string, data []byte) error {
	if path == "" {
		_, err := io.Copy(app.out, bytes.NewReader(data))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
