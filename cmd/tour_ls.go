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

var tourCommand = cobra.Command{
	Use:   "tour",
	Short: "tour commands",
	Long:  `houses the tour related commands`,
}

var listToursCommand = cobra.Command{
	Use:   "ls",
	Short: "Lists all tours",
	Long:  `This will list all tours`,
	Run: func(cmd *cobra.Command, args []string) {
		//setup datastore
		dataStore := mustResolveUsableDataStore()
		entries, total, err := dataStore.Tours(context.Background(), db.ListOptions{
			Page:     1,
			PageSize: math.MaxInt,
		})
		if err != nil {
			fmt.Printf("Unable to load tours: %s", err)
			os.Exit(1)
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 1, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s \r\n",
			"ID", "OwnerID", "Title", "Status", "CreatedAt")
		formatDt := func(t time.Time) string {
			return t.Format("2006-01-02")
		}
		for _, v := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s \r\n",
				v.ID, v.OwnerID, v.Title, v.Status, formatDt(v.CreatedAt))
		}
		fmt.Fprintf(w, "------------------------------------------------- \r\n")
		fmt.Fprintf(w, "%d entries loaded", total)
		w.Flush()
	},
}
