package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/contentpipe/contentpipe/internal/server"
)

func serveCmd() *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:   "serve",
		Short: "start the http server",
		Run: func(cmd *cobra.Command, args []string) {
			if port == "" {
				port = os.Getenv("PORT")
			}
			if port == "" {
				port = "4020"
			}

			server.NewServer(port).Start()
		},
	}

	command.Flags().StringVarP(&port, "port", "p", "", "http port")

	return command
}
