package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/client/services"
)

func (a *App) Analytics(ctx context.Context) error {
	sess, ok := a.requireSession(ctx)
	if !ok {
		return nil
	}

	stats, err := a.analyticsService.Fetch(ctx, sess)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Total files: %d\n", stats.TotalFiles)
	fmt.Printf("Total size:  %d bytes\n", stats.TotalSizeBytes)

	if len(stats.UploadTrend) > 0 {
		fmt.Println("Last days:")
		for _, p := range stats.UploadTrend {
			fmt.Printf("  %s  uploads: %-4d downloads: %d\n", p.Date.Format("2006-01-02"), p.Uploads, p.Downloads)
		}
	}
	if len(stats.StorageByType) > 0 {
		fmt.Println("By type:")
		for _, u := range stats.StorageByType {
			fmt.Printf("  %-12s %d bytes\n", u.Type, u.SizeBytes)
		}
	}
	return nil
}

// Activities prints the activity log, newest first by default. Optional
// arguments narrow and reorder the output: an action (upload, download,
// delete), a sort order (date-asc, date-desc, name-asc, name-desc) and up
// to two YYYY-MM-DD dates bounding the range.
func (a *App) Activities(ctx context.Context, args []string) error {
	sess, ok := a.requireSession(ctx)
	if !ok {
		return nil
	}

	filter, order, err := parseActivityArgs(args)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		fmt.Println("Usage: activities [upload|download|delete] [date-asc|date-desc|name-asc|name-desc] [from] [to]")
		return err
	}

	entries, err := a.activityService.Fetch(ctx, sess)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	entries = services.FilterActivities(entries, filter)
	if len(entries) == 0 {
		fmt.Println("No matching activity.")
		return nil
	}

	for _, e := range services.SortActivities(entries, order) {
		fmt.Printf("%s  %-8s %-40s %d\n", e.Timestamp.Format("2006-01-02 15:04"), e.Action, e.FileName, e.SizeBytes)
	}
	return nil
}

// parseActivityArgs maps command arguments onto a filter and a sort order.
// The first date argument opens the range, the second closes it inclusively.
func parseActivityArgs(args []string) (services.ActivityFilter, string, error) {
	var f services.ActivityFilter
	order := services.SortDateDesc

	for _, arg := range args {
		switch arg {
		case "upload", "download", "delete":
			f.Action = arg
		case services.SortDateAsc, services.SortDateDesc, services.SortNameAsc, services.SortNameDesc:
			order = arg
		default:
			day, err := time.Parse("2006-01-02", arg)
			if err != nil {
				return services.ActivityFilter{}, "", fmt.Errorf("unknown argument: %s", arg)
			}
			if f.From.IsZero() {
				f.From = day
			} else {
				f.To = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
		}
	}
	return f, order, nil
}
