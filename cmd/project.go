package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/contentpipe/contentpipe"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "project commands",
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	projectCmd.AddCommand(createProjectCmd())
	projectCmd.AddCommand(getProjectCmd())
	projectCmd.AddCommand(listProjectsCmd())
	projectCmd.AddCommand(updateProjectCmd())
	projectCmd.AddCommand(deleteProjectCmd())
}

func apiClient() contentpipe.Client {
	cfg := readContext()
	return contentpipe.NewClient(serverAddr(cfg), cfg.Token)
}

func createProjectCmd() *cobra.Command {
	var title string
	var contentType string
	var tone string
	var targetLength int

	var required = []string{"title", "content-type"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a project",
		Example: "contentpipe project create -t <title> -c blog --tone formal -l 1500",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := &contentpipe.CreateProjectRequest{
				Title:          title,
				ContentType:    contentType,
				TonePreference: tone,
				TargetLength:   targetLength,
			}

			res, err := apiClient().CreateProject(context.Background(), req)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("project created with id: %s", res.ID)
		},
	}

	command.Flags().StringVarP(&title, "title", "t", "", "project title (required)")
	command.Flags().StringVarP(&contentType, "content-type", "c", "", "blog, article, report or summary (required)")
	command.Flags().StringVar(&tone, "tone", "", "formal, casual, technical or persuasive")
	command.Flags().IntVarP(&targetLength, "length", "l", 0, "target word count")

	command.Flags().SortFlags = false

	return command
}

func getProjectCmd() *cobra.Command {
	var projectID string

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:   "get",
		Short: "get a project",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().GetProject(context.Background(), projectID)
			if err != nil {
				logrus.Error(err)
				return
			}

			printProjectTable([]*contentpipe.Project{res})
			printField("Title", res.Title)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")

	return command
}

func listProjectsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list projects",
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient().ListProjects(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			printProjectTable(res)
		},
	}

	return command
}

func updateProjectCmd() *cobra.Command {
	var projectID string
	var title string
	var tone string
	var status string
	var targetLength int

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:   "update",
		Short: "update a project",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := &contentpipe.UpdateProjectRequest{}
			if cmd.Flag("title").Changed {
				req.Title = &title
			}
			if cmd.Flag("tone").Changed {
				req.TonePreference = &tone
			}
			if cmd.Flag("status").Changed {
				req.Status = &status
			}
			if cmd.Flag("length").Changed {
				req.TargetLength = &targetLength
			}

			res, err := apiClient().UpdateProject(context.Background(), projectID, req)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("project updated: %s", res.ID)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "project title")
	command.Flags().StringVar(&tone, "tone", "", "tone preference")
	command.Flags().StringVarP(&status, "status", "s", "", "project status")
	command.Flags().IntVarP(&targetLength, "length", "l", 0, "target word count")

	command.Flags().SortFlags = false

	return command
}

func deleteProjectCmd() *cobra.Command {
	var projectID string

	var required = []string{"project-id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a project and everything under it",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			err := apiClient().DeleteProject(context.Background(), projectID)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("project deleted: %s", projectID)
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")

	return command
}

func printProjectTable(projects []*contentpipe.Project) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Type", "Status", "Versions"})
	for _, p := range projects {
		table.Append([]string{p.ID, p.Title, p.ContentType, p.Status, strconv.FormatInt(p.VersionCount, 10)})
	}
	table.Render()
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

// checkMissingFlags checks if the required flags are set and returns ok if they are set
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if cmd.Flag(required).Changed == false {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		cmd.Usage()

		return true
	}

	return false
}
