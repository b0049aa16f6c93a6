package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "contentpipe"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

type Context struct {
	Server string `json:"server"`
	Token  string `json:"token"`
}

// saves the server address and token to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var token string
	var addr string
	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if addr == "" {
				color.Red(`missing: --server`)
				return
			}

			writeContext(Context{
				Server: addr,
				Token:  token,
			})
			fmt.Println("context saved")
		},
	}

	command.Flags().StringVarP(&addr, "server", "s", "", "server address, e.g. http://localhost:4020")
	command.Flags().StringVarP(&token, "token", "t", "", "token")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := readContext()
			fmt.Println("server:", serverAddr(cfg))
			if cfg.Token != "" {
				fmt.Println("token: set")
			} else {
				fmt.Println("token: not set")
			}
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			writeContext(Context{})
			fmt.Println("context reset")
		},
	}

	return command
}

func writeContext(context Context) {
	if err := os.MkdirAll("./.tmp", os.ModePerm); err != nil {
		fmt.Println("error creating config dir: ", err)
		return
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath("./.tmp")
	viper.SetConfigType("yml")
	viper.Set("context", context)

	if err := viper.WriteConfigAs("./.tmp/" + configFileName + ".yml"); err != nil {
		fmt.Println("error writing config file: ", err)
	}
}

func readContext() Context {
	var ctx Context

	// create file if it doesn't exist
	if _, err := os.Stat("./.tmp/" + configFileName + ".yml"); os.IsNotExist(err) {
		return ctx
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath("./.tmp")
	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("error reading config file: ", err)
	}

	if err := viper.UnmarshalKey("context", &ctx); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return ctx
}

func serverAddr(ctx Context) string {
	if ctx.Server != "" {
		return ctx.Server
	}

	return "http://localhost:4020"
}
