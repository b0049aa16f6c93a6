package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/contentpipe/contentpipe"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "draft commands",
}

func init() {
	rootCmd.AddCommand(draftCmd)
	draftCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	draftCmd.AddCommand(generateDraftCmd())
	draftCmd.AddCommand(listDraftsCmd())
	draftCmd.AddCommand(getDraftCmd())
	draftCmd.AddCommand(refineDraftCmd())
	draftCmd.AddCommand(exportDraftCmd())
}

func generateDraftCmd() *cobra.Command {
	var projectID string

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:     "generate",
		Short:   "generate a new draft version from project sources",
		Example: "contentpipe draft generate -p <project-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().GenerateDraft(context.Background(), projectID)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("draft v%d generated with id: %s", res.VersionNumber, res.ID)
			printDraftTable([]*contentpipe.Draft{res})
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")

	return command
}

func listDraftsCmd() *cobra.Command {
	var projectID string

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:   "list",
		Short: "list draft versions of a project",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().ListDrafts(context.Background(), projectID)
			if err != nil {
				logrus.Error(err)
				return
			}

			printDraftTable(res)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")

	return command
}

func getDraftCmd() *cobra.Command {
	var draftID string

	var required = []string{"draft-id"}

	command := &cobra.Command{
		Use:   "get",
		Short: "get a draft version",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().GetDraft(context.Background(), draftID)
			if err != nil {
				logrus.Error(err)
				return
			}

			printDraftTable([]*contentpipe.Draft{res})
			printField("Content", res.Content)
		},
	}

	command.Flags().StringVarP(&draftID, "draft-id", "d", "", "draft id (required)")

	return command
}

func refineDraftCmd() *cobra.Command {
	var draftID string
	var feedbackType string
	var feedback string

	var required = []string{"draft-id", "feedback"}

	command := &cobra.Command{
		Use:     "refine",
		Short:   "record refinement feedback against a draft",
		Example: "contentpipe draft refine -d <draft-id> --type tone --feedback 'less formal'",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := &contentpipe.RefineRequest{
				Feedback:     feedback,
				FeedbackType: feedbackType,
			}

			res, err := apiClient().RefineDraft(context.Background(), draftID, req)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("revision recorded with id: %s", res.ID)
		},
	}

	command.Flags().StringVarP(&draftID, "draft-id", "d", "", "draft id (required)")
	command.Flags().StringVarP(&feedbackType, "type", "t", "general", "inline, general, structural or tone")
	command.Flags().StringVar(&feedback, "feedback", "", "feedback text (required)")

	command.Flags().SortFlags = false

	return command
}

func exportDraftCmd() *cobra.Command {
	var projectID string
	var format string
	var citations bool
	var out string

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:     "export",
		Short:   "export the current draft of a project",
		Example: "contentpipe draft export -p <project-id> -f html -o draft.html",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := &contentpipe.ExportRequest{
				Format:           format,
				IncludeCitations: citations,
			}

			res, err := apiClient().ExportProject(context.Background(), projectID, req)
			if err != nil {
				logrus.Error(err)
				return
			}

			if out != "" {
				if err := os.WriteFile(out, []byte(res.Content), 0644); err != nil {
					logrus.Error(err)
					return
				}
				logrus.Infof("exported %s document to %s", res.Format, out)
				return
			}

			fmt.Println(res.Content)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")
	command.Flags().StringVarP(&format, "format", "f", "markdown", "markdown, html or text")
	command.Flags().BoolVar(&citations, "citations", false, "append the citation list")
	command.Flags().StringVarP(&out, "out", "o", "", "write the document to a file")

	command.Flags().SortFlags = false

	return command
}

func printDraftTable(drafts []*contentpipe.Draft) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Version", "Words", "Quality", "Time (ms)"})
	for _, d := range drafts {
		table.Append([]string{
			d.ID,
			strconv.FormatInt(d.VersionNumber, 10),
			strconv.Itoa(len(strings.Fields(d.Content))),
			fmt.Sprintf("%.2f", d.QualityScore),
			strconv.FormatInt(d.GenerationTime, 10),
		})
	}
	table.Render()
}
