package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/contentpipe/contentpipe"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "source commands",
}

func init() {
	rootCmd.AddCommand(sourceCmd)
	sourceCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	sourceCmd.AddCommand(addSourceCmd())
	sourceCmd.AddCommand(listSourcesCmd())
	sourceCmd.AddCommand(removeSourceCmd())
}

func addSourceCmd() *cobra.Command {
	var projectID string
	var url string
	var note string
	var file string

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "add a source to a project",
		Example: "contentpipe source add -p <project-id> --note <text>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := apiClient()
			ctx := context.Background()

			var res *contentpipe.Source
			var err error
			switch {
			case url != "":
				res, err = client.AddURLSource(ctx, projectID, url)
			case note != "":
				res, err = client.AddNoteSource(ctx, projectID, note)
			case file != "":
				f, openErr := os.Open(file)
				if openErr != nil {
					logrus.Error(openErr)
					return
				}
				defer f.Close()
				res, err = client.AddFileSource(ctx, projectID, filepath.Base(file), f)
			default:
				color.Red("missing: one of --url, --note or --file")
				return
			}
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("source added with id: %s", res.ID)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")
	command.Flags().StringVarP(&url, "url", "u", "", "source url")
	command.Flags().StringVarP(&note, "note", "n", "", "note text")
	command.Flags().StringVarP(&file, "file", "f", "", "path to a local file")

	command.Flags().SortFlags = false

	return command
}

func listSourcesCmd() *cobra.Command {
	var projectID string

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:   "list",
		Short: "list project sources",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().ListSources(context.Background(), projectID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Type", "Path", "Status"})
			for _, s := range res {
				table.Append([]string{s.ID, s.SourceType, s.OriginalPath, s.ProcessingStatus})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")

	return command
}

func removeSourceCmd() *cobra.Command {
	var sourceID string

	var required = []string{"source-id"}

	command := &cobra.Command{
		Use:   "remove",
		Short: "remove a source",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			err := apiClient().DeleteSource(context.Background(), sourceID)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("source removed: %s", sourceID)
		},
	}

	command.Flags().StringVarP(&sourceID, "source-id", "s", "", "source id (required)")

	return command
}
