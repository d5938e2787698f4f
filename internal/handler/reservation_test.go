package handler

import (
	"testing"
	"time"

	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestFilterByCheckIn(t *testing.T) {
	items := func() []domain.Reservation {
		return []domain.Reservation{
			{ID: 1, CheckInDate: day(2024, 5, 31)},
			{ID: 2, CheckInDate: day(2024, 6, 1)},
			{ID: 3, CheckInDate: day(2024, 6, 2)},
			{ID: 4},
		}
	}

	ids := func(res []domain.Reservation) []int64 {
		out := make([]int64, 0, len(res))
		for _, r := range res {
			out = append(out, r.ID)
		}
		return out
	}

	t.Run("no bounds returns everything", func(t *testing.T) {
		got := filterByCheckIn(items(), nil, nil)
		if len(got) != 4 {
			t.Fatalf("got %v", ids(got))
		}
	})

	t.Run("end date is inclusive and nothing past it leaks", func(t *testing.T) {
		got := filterByCheckIn(items(), nil, day(2024, 6, 1))
		if want := []int64{1, 2}; !equalIDs(ids(got), want) {
			t.Fatalf("got %v, want %v", ids(got), want)
		}
	})

	t.Run("start date is inclusive", func(t *testing.T) {
		got := filterByCheckIn(items(), day(2024, 6, 1), nil)
		if want := []int64{2, 3}; !equalIDs(ids(got), want) {
			t.Fatalf("got %v, want %v", ids(got), want)
		}
	})

	t.Run("single day window", func(t *testing.T) {
		got := filterByCheckIn(items(), day(2024, 6, 1), day(2024, 6, 1))
		if want := []int64{2}; !equalIDs(ids(got), want) {
			t.Fatalf("got %v, want %v", ids(got), want)
		}
	})
}

func equalIDs(got, want []int64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestResourceStatusOrDefault(t *testing.T) {
	roomStatuses := []domain.ResourceStatus{domain.ResourceAvailable, domain.ResourceOccupied, domain.ResourceMaintenance}
	guideStatuses := []domain.ResourceStatus{domain.ResourceAvailable, domain.ResourceBusy}

	cases := []struct {
		name    string
		status  string
		allowed []domain.ResourceStatus
		want    domain.ResourceStatus
	}{
		{"room maintenance allowed", "maintenance", roomStatuses, domain.ResourceMaintenance},
		{"room busy falls back", "busy", roomStatuses, domain.ResourceAvailable},
		{"guide busy allowed", "busy", guideStatuses, domain.ResourceBusy},
		{"guide maintenance falls back", "maintenance", guideStatuses, domain.ResourceAvailable},
		{"guide occupied falls back", "occupied", guideStatuses, domain.ResourceAvailable},
		{"empty falls back", "", roomStatuses, domain.ResourceAvailable},
		{"garbage falls back", "broken", roomStatuses, domain.ResourceAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resourceStatusOrDefault(tc.status, tc.allowed...); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
