package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tree-service-leads/internal/client"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagToken         = "token"
)

// environment variable names
const (
	envServerAddress = "JOBCTL_SERVER_ADDRESS"
	envToken         = "JOBCTL_TOKEN"
)

var (
	// apiClient is the shared API client. Tests replace it.
	apiClient client.Client
	// serverAddress and token are set from flags, then env.
	serverAddress string
	token         string
)

func initClient() error {
	if apiClient != nil {
		return nil
	}
	c, err := client.New(client.Options{BaseURL: serverAddress, Token: token})
	if err != nil {
		return err
	}
	apiClient = c
	return nil
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", client.DefaultBaseURL, "Address of the API server (env: "+envServerAddress+")")
	RootCmd.PersistentFlags().StringVarP(&token, flagToken, "t", "", "Admin session token (env: "+envToken+")")

	RootCmd.AddCommand(GetLoginCmd())
	RootCmd.AddCommand(GetJobsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "jobctl",
	Short:         "jobctl enqueues and watches lead-automation jobs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > env > default.
		if !cmd.Flags().Changed(flagServerAddress) {
			if v := os.Getenv(envServerAddress); v != "" {
				serverAddress = v
			}
		}
		if !cmd.Flags().Changed(flagToken) {
			if v := os.Getenv(envToken); v != "" {
				token = v
			}
		}
		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
