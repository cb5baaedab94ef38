package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pbartela/plantour/db"
	"github.com/spf13/cobra"
)

var inviteCommand = cobra.Command{
	Use:   "invite",
	Short: "invitation commands",
	Long:  `houses the invitation related commands`,
}

var listInvitationsCommand = cobra.Command{
	Use:   "ls",
	Short: "Lists all invitations",
	Long:  `This will list all invitations`,
	Run: func(cmd *cobra.Command, args []string) {
		//setup datastore
		dataStore := mustResolveUsableDataStore()
		entries, total, err := dataStore.Invitations(context.Background(), db.ListOptions{
			Page:     1,
			PageSize: math.MaxInt,
		})
		if err != nil {
			fmt.Printf("Unable to load invitations: %s", err)
			os.Exit(1)
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 1, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s \r\n",
			"ID", "TourID", "Email", "Status", "CreatedAt", "ExpiresAt")
		formatDt := func(t time.Time) string {
			return t.Format("2006-01-02")
		}
		for _, v := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s \r\n",
				v.ID, v.TourID, v.Email, v.Status, formatDt(v.CreatedAt), formatDt(v.ExpiresAt))
		}
		fmt.Fprintf(w, "------------------------------------------------- \r\n")
		fmt.Fprintf(w, "%d entries loaded", total)
		w.Flush()
	},
}
