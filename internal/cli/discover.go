package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edumentor/learnconnect/pkg/learnsdk"
)

func (a *App) tutorsCmd() *cobra.Command {
	var filter learnsdk.TutorFilter

	cmd := &cobra.Command{
		Use:   "tutors",
		Short: "Search for tutors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			list, err := a.client.FindTutors(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(list.Tutors) == 0 {
				fmt.Fprintln(a.out, "no tutors found")
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tRATING\tREVIEWS\tRATE\tSKILLS")
			for _, t := range list.Tutors {
				skills := make([]string, 0, len(t.Skills))
				for _, s := range t.Skills {
					skills = append(skills, s.Name)
				}
				fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t$%.2f\t%s\n",
					t.User.ID, t.User.Name, t.Rating, t.Reviews, t.HourlyRate,
					strings.Join(skills, ", "))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&filter.Skill, "skill", "", "filter by skill name")
	cmd.Flags().Float64Var(&filter.MinRating, "min-rating", 0, "minimum average rating")
	cmd.Flags().Float64Var(&filter.MaxRate, "max-rate", 0, "maximum hourly rate")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum results")

	return cmd
}

func (a *App) skillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "Browse the skill catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			list, err := a.client.ListSkills(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY")
			for _, s := range list.Skills {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, s.Category)
			}
			return w.Flush()
		},
	})

	var skillID string
	add := &cobra.Command{
		Use:   "add",
		Short: "Declare a skill you teach (tutors only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			if err := a.client.AddTutorSkill(cmd.Context(), skillID); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "skill added")
			return nil
		},
	}
	add.Flags().StringVar(&skillID, "id", "", "skill ID from 'skills list'")
	_ = add.MarkFlagRequired("id")
	cmd.AddCommand(add)

	return cmd
}
