package services

import (
	"context"
	"testing"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/client/models"
	"github.com/cloudsafe/cloudsafe/internal/common"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 8, d, 12, 0, 0, 0, time.UTC)
}

var history = []models.ActivityEntry{
	{FileName: "b.txt", Action: models.ActionUpload, Timestamp: day(1), SizeBytes: 10},
	{FileName: "a.txt", Action: models.ActionDownload, Timestamp: day(2), SizeBytes: 20},
	{FileName: "c.txt", Action: models.ActionDelete, Timestamp: day(3), SizeBytes: 30},
}

func TestFilterActivities(t *testing.T) {
	tests := []struct {
		name   string
		filter ActivityFilter
		want   []string
	}{
		{"no constraint", ActivityFilter{}, []string{"b.txt", "a.txt", "c.txt"}},
		{"from", ActivityFilter{From: day(2)}, []string{"a.txt", "c.txt"}},
		{"to", ActivityFilter{To: day(2)}, []string{"b.txt", "a.txt"}},
		{"range", ActivityFilter{From: day(2), To: day(2)}, []string{"a.txt"}},
		{"action", ActivityFilter{Action: models.ActionDelete}, []string{"c.txt"}},
		{"action and range", ActivityFilter{From: day(3), Action: models.ActionUpload}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterActivities(history, tt.filter)
			names := make([]string, 0, len(got))
			for _, e := range got {
				names = append(names, e.FileName)
			}
			require.Equal(t, tt.want, names)
		})
	}
}

func TestSortActivities(t *testing.T) {
	tests := []struct {
		name  string
		order string
		want  []string
	}{
		{"date desc default", "", []string{"c.txt", "a.txt", "b.txt"}},
		{"date desc", SortDateDesc, []string{"c.txt", "a.txt", "b.txt"}},
		{"date asc", SortDateAsc, []string{"b.txt", "a.txt", "c.txt"}},
		{"name asc", SortNameAsc, []string{"a.txt", "b.txt", "c.txt"}},
		{"name desc", SortNameDesc, []string{"c.txt", "b.txt", "a.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortActivities(history, tt.order)
			names := make([]string, 0, len(got))
			for _, e := range got {
				names = append(names, e.FileName)
			}
			require.Equal(t, tt.want, names)
		})
	}

	// the input slice is never reordered
	require.Equal(t, "b.txt", history[0].FileName)
}

func TestActivityFetch_WrapsGatewayError(t *testing.T) {
	svc := NewActivityService(&fakeGateway{ActivitiesErr: common.ErrRequestFailed})
	_, err := svc.Fetch(context.Background(), sess)
	require.ErrorIs(t, err, common.ErrRequestFailed)
}

func TestProfileUpdate_BlankNameIsValidationFailure(t *testing.T) {
	fg := &fakeGateway{}
	svc := NewProfileService(fg)

	_, err := svc.Update(context.Background(), sess, "  ")
	require.ErrorIs(t, err, common.ErrValidationFailed)
	require.Empty(t, fg.LastUpdateName)
}

func TestProfileUpdate_TrimsName(t *testing.T) {
	fg := &fakeGateway{UpdateRet: models.Profile{FullName: "Ada"}}
	svc := NewProfileService(fg)

	p, err := svc.Update(context.Background(), sess, "  Ada ")
	require.NoError(t, err)
	require.Equal(t, "Ada", fg.LastUpdateName)
	require.Equal(t, "Ada", p.FullName)
}

func TestAnalyticsFetch_PassesThrough(t *testing.T) {
	want := models.Analytics{TotalFiles: 2, TotalSizeBytes: 99}
	svc := NewAnalyticsService(&fakeGateway{AnalyticsRet: want})

	got, err := svc.Fetch(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
