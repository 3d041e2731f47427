package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"resume-builder/resume/model"
)

func newShowCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the working copy as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := app.ctrl.Data()
			data.Normalize()
			out, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(app.out, string(out))
			return nil
		},
	}
}

func newSetCmd(app *cli) *cobra.Command {
	var p model.PersonalInfo
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update personal information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current := app.ctrl.Data().Personal
			flags := cmd.Flags()
			fields := []struct {
				name string
				dst  *string
				src  string
			}{
				{"full-name", &current.FullName, p.FullName},
				{"title", &current.Title, p.Title},
				{"email", &current.Email, p.Email},
				{"phone", &current.Phone, p.Phone},
				{"location", &current.Location, p.Location},
				{"linkedin", &current.LinkedIn, p.LinkedIn},
				{"website", &current.Website, p.Website},
				{"summary", &current.Summary, p.Summary},
			}
			changed := false
			for _, f := range fields {
				if flags.Changed(f.name) {
					*f.dst = f.src
					changed = true
				}
			}
			if !changed {
				return fmt.Errorf("nothing to set")
			}
			app.ctrl.Apply(model.Patch{Personal: &current})
			return nil
		},
	}
	cmd.Flags().StringVar(&p.FullName, "full-name", "", "Full name")
	cmd.Flags().StringVar(&p.Title, "title", "", "Professional title")
	cmd.Flags().StringVar(&p.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&p.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&p.Location, "location", "", "Location")
	cmd.Flags().StringVar(&p.LinkedIn, "linkedin", "", "LinkedIn URL")
	cmd.Flags().StringVar(&p.Website, "website", "", "Website URL")
	cmd.Flags().StringVar(&p.Summary, "summary", "", "Professional summary")
	return cmd
}

func newExperienceCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "experience", Short: "Manage work experience"}

	var exp model.Experience
	add := &cobra.Command{
		Use:   "add",
		Short: "Append an experience entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entry := exp
			entry.ID = model.NewItemID()
			if entry.Current {
				entry.EndDate = ""
			}
			exps := append(app.ctrl.Data().Experiences, entry)
			if err := app.ctrl.ApplyChecked(model.Patch{Experiences: exps}); err != nil {
				return err
			}
			fmt.Fprintln(app.out, entry.ID)
			return nil
		},
	}
	add.Flags().StringVar(&exp.JobTitle, "job-title", "", "Job title")
	add.Flags().StringVar(&exp.Company, "company", "", "Company")
	add.Flags().StringVar(&exp.Location, "location", "", "Location")
	add.Flags().StringVar(&exp.StartDate, "start", "", "Start date (YYYY-MM)")
	add.Flags().StringVar(&exp.EndDate, "end", "", "End date (YYYY-MM)")
	add.Flags().BoolVar(&exp.Current, "current", false, "Currently working here")
	add.Flags().StringVar(&exp.Description, "description", "", "Description, one bullet per line")

	move := &cobra.Command{
		Use:   "move <index> <up|down>",
		Short: "Move an experience entry one place up or down",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			var direction int
			switch args[1] {
			case "up":
				direction = -1
			case "down":
				direction = 1
			default:
				return fmt.Errorf("direction must be up or down")
			}
			exps := app.ctrl.Data().Experiences
			app.ctrl.Apply(model.Patch{Experiences: model.MoveExperience(exps, index, direction)})
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an experience entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exps := app.ctrl.Data().Experiences
			kept := make([]model.Experience, 0, len(exps))
			for _, e := range exps {
				if e.ID != args[0] {
					kept = append(kept, e)
				}
			}
			if len(kept) == len(exps) {
				return fmt.Errorf("no experience with id %q", args[0])
			}
			app.ctrl.Apply(model.Patch{Experiences: kept})
			return nil
		},
	}

	cmd.AddCommand(add, move, remove)
	return cmd
}

func newEducationCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "education", Short: "Manage education"}

	var edu model.Education
	add := &cobra.Command{
		Use:   "add",
		Short: "Append an education entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entry := edu
			entry.ID = model.NewItemID()
			list := append(app.ctrl.Data().Education, entry)
			if err := app.ctrl.ApplyChecked(model.Patch{Education: list}); err != nil {
				return err
			}
			fmt.Fprintln(app.out, entry.ID)
			return nil
		},
	}
	add.Flags().StringVar(&edu.Degree, "degree", "", "Degree")
	add.Flags().StringVar(&edu.Institution, "institution", "", "Institution")
	add.Flags().StringVar(&edu.Location, "location", "", "Location")
	add.Flags().StringVar(&edu.GraduationYear, "year", "", "Graduation year")
	add.Flags().StringVar(&edu.GPA, "gpa", "", "GPA")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an education entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := app.ctrl.Data().Education
			kept := make([]model.Education, 0, len(list))
			for _, e := range list {
				if e.ID != args[0] {
					kept = append(kept, e)
				}
			}
			if len(kept) == len(list) {
				return fmt.Errorf("no education with id %q", args[0])
			}
			app.ctrl.Apply(model.Patch{Education: kept})
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func newSkillCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "skill", Short: "Manage skills"}

	add := &cobra.Command{
		Use:   "add <category> <skill>",
		Short: "Add a skill, creating the category if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			skills := app.ctrl.Data().Skills
			i := findCategory(skills, args[0])
			if i < 0 {
				skills = append(skills, model.SkillCategory{ID: model.NewItemID(), Name: strings.TrimSpace(args[0]), Skills: []string{}})
				i = len(skills) - 1
			}
			updated, err := model.AddSkill(skills[i], args[1])
			if err != nil {
				return err
			}
			skills[i] = updated
			app.ctrl.Apply(model.Patch{Skills: skills})
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <category> [skill]",
		Short: "Remove a skill, or the whole category when no skill is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			skills := app.ctrl.Data().Skills
			i := findCategory(skills, args[0])
			if i < 0 {
				return fmt.Errorf("no skill category %q", args[0])
			}
			if len(args) == 1 {
				skills = append(skills[:i], skills[i+1:]...)
				app.ctrl.Apply(model.Patch{Skills: skills})
				return nil
			}
			idx := -1
			for j, s := range skills[i].Skills {
				if s == args[1] {
					idx = j
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("no skill %q in %q", args[1], args[0])
			}
			skills[i] = model.RemoveSkill(skills[i], idx)
			app.ctrl.Apply(model.Patch{Skills: skills})
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func findCategory(skills []model.SkillCategory, name string) int {
	name = strings.TrimSpace(name)
	for i, c := range skills {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

func newCustomizeCmd(app *cli) *cobra.Command {
	var c model.Customization
	cmd := &cobra.Command{
		Use:   "customize",
		Short: "Change colour scheme, font or spacing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current := app.ctrl.Data().Customization
			flags := cmd.Flags()
			if flags.Changed("color") {
				current.ColorScheme = c.ColorScheme
			}
			if flags.Changed("font") {
				current.FontFamily = c.FontFamily
			}
			if flags.Changed("spacing") {
				current.Spacing = c.Spacing
			}
			return app.ctrl.ApplyChecked(model.Patch{Customization: &current})
		},
	}
	cmd.Flags().StringVar(&c.ColorScheme, "color", "", "Colour scheme")
	cmd.Flags().StringVar(&c.FontFamily, "font", "", "Font family")
	cmd.Flags().IntVar(&c.Spacing, "spacing", model.DefaultSpacing, "Section spacing (1-3)")
	return cmd
}

func newApplyCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "apply [file]",
		Short: "Replace top-level sections from a partial JSON document",
		Long:  "apply reads a JSON object from file, or stdin when file is omitted or \"-\". Every key present is validated and replaces the matching section of the working copy.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 0 || args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read patch: %w", err)
			}
			return app.ctrl.ApplyJSON(raw)
		},
	}
}
