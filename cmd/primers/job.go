package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	jobState "primerdesign/api/models/constants/job-state"
	"primerdesign/api/services"
	"primerdesign/api/utils"
)

var (
	apiUrl       string
	waitForJob   bool
	pollInterval time.Duration
)

// jobCmd fetches a batch job from a running service
var jobCmd = &cobra.Command{
	Use:   "job <id>",
	Short: "Fetch a batch design job from a running service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		endpoint := fmt.Sprintf("%s/primers/design/jobs/%s", strings.TrimRight(apiUrl, "/"), url.PathEscape(args[0]))
		for {
			job, err := utils.GetJson[services.DesignJob](ctx, endpoint)
			if err != nil {
				return err
			}
			if !waitForJob || jobState.IsFinished(job.State) {
				return render(cmd.OutOrStdout(), output, job)
			}

			select {
			case <-ctx.Done():
				return fmt.Errorf("job %s still %s: %w", job.Id, job.State, ctx.Err())
			case <-time.After(pollInterval):
			}
		}
	},
}

func init() {
	jobCmd.Flags().StringVar(&apiUrl, "api", "http://localhost:5000", "Base url of the primer design service")
	jobCmd.Flags().BoolVar(&waitForJob, "wait", false, "Poll until the job is Done or Error")
	jobCmd.Flags().DurationVar(&pollInterval, "poll-interval", 2*time.Second, "Delay between polls with --wait")
}
