// ABOUTME: Tests for the snapshot caches
// ABOUTME: Proves stale fetches never overwrite newer data and errors leave caches intact
package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/apptbase/models"
)

func TestRefreshPublishesSnapshot(t *testing.T) {
	var cache AppointmentCache

	if _, ok := cache.Snapshot(); ok {
		t.Fatal("expected no snapshot before first refresh")
	}

	snap, err := cache.Refresh(context.Background(), func(ctx context.Context) ([]models.Appointment, error) {
		return []models.Appointment{{ID: "rec1"}}, nil
	})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if snap.ID == "" {
		t.Error("expected snapshot to carry an ID")
	}
	if len(snap.Appointments) != 1 {
		t.Errorf("expected 1 appointment, got %d", len(snap.Appointments))
	}

	current, ok := cache.Snapshot()
	if !ok || current.ID != snap.ID {
		t.Error("Snapshot should return the published result")
	}
}

func TestStaleRefreshDiscarded(t *testing.T) {
	var cache AppointmentCache

	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})
	slowDone := make(chan *Snapshot, 1)

	go func() {
		snap, err := cache.Refresh(context.Background(), func(ctx context.Context) ([]models.Appointment, error) {
			close(slowStarted)
			<-slowRelease
			return []models.Appointment{{ID: "stale"}}, nil
		})
		if err != nil {
			t.Errorf("slow refresh failed: %v", err)
		}
		slowDone <- snap
	}()

	<-slowStarted

	fresh, err := cache.Refresh(context.Background(), func(ctx context.Context) ([]models.Appointment, error) {
		return []models.Appointment{{ID: "fresh"}}, nil
	})
	if err != nil {
		t.Fatalf("fresh refresh failed: %v", err)
	}

	close(slowRelease)
	slowResult := <-slowDone

	current, ok := cache.Snapshot()
	if !ok || current.Appointments[0].ID != "fresh" {
		t.Fatal("stale fetch overwrote a newer snapshot")
	}
	if current.ID != fresh.ID {
		t.Error("published snapshot should be the fresh one")
	}
	if slowResult == nil || slowResult.ID != fresh.ID {
		t.Error("stale refresh should hand back the newer snapshot")
	}
}

func TestRefreshErrorLeavesSnapshot(t *testing.T) {
	var cache AppointmentCache

	first, err := cache.Refresh(context.Background(), func(ctx context.Context) ([]models.Appointment, error) {
		return []models.Appointment{{ID: "rec1"}}, nil
	})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	_, err = cache.Refresh(context.Background(), func(ctx context.Context) ([]models.Appointment, error) {
		return nil, errors.New("store unreachable")
	})
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}

	current, ok := cache.Snapshot()
	if !ok || current.ID != first.ID {
		t.Error("failed refresh should leave the previous snapshot in place")
	}
	if cache.Refreshing() {
		t.Error("no fetch should be in flight after a failed refresh")
	}
}

func TestRefreshingIndicator(t *testing.T) {
	var cache AppointmentCache

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_, _ = cache.Refresh(context.Background(), func(ctx context.Context) ([]models.Appointment, error) {
			close(started)
			<-release
			return nil, nil
		})
		close(done)
	}()

	<-started
	if !cache.Refreshing() {
		t.Error("expected Refreshing during an in-flight fetch")
	}

	close(release)
	<-done
	if cache.Refreshing() {
		t.Error("expected Refreshing to clear after the fetch lands")
	}
}

func TestSnapshotIDsSortByCreation(t *testing.T) {
	var cache AppointmentCache

	first, err := cache.Refresh(context.Background(), func(ctx context.Context) ([]models.Appointment, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	// ULID timestamps have millisecond precision
	time.Sleep(2 * time.Millisecond)

	second, err := cache.Refresh(context.Background(), func(ctx context.Context) ([]models.Appointment, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if !(first.ID < second.ID) {
		t.Errorf("expected later snapshot ID to sort after earlier: %s vs %s", first.ID, second.ID)
	}
}

func TestContactCacheLookup(t *testing.T) {
	var cache ContactCache

	err := cache.Refresh(context.Background(), func(ctx context.Context) ([]models.Contact, error) {
		return []models.Contact{
			{ID: "recC1", Name: "Ann", Surname: "Lee"},
			{ID: "recC2", Name: "Bob"},
		}, nil
	})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	contact, ok := cache.ByID("recC2")
	if !ok || contact.Name != "Bob" {
		t.Errorf("expected Bob, got %+v (ok=%v)", contact, ok)
	}
	if _, ok := cache.ByID("recMissing"); ok {
		t.Error("expected miss for unknown ID")
	}
	if len(cache.All()) != 2 {
		t.Errorf("expected 2 contacts, got %d", len(cache.All()))
	}
}

func TestAgentCacheNameIndex(t *testing.T) {
	var cache AgentCache

	err := cache.Refresh(context.Background(), func(ctx context.Context) ([]models.Agent, error) {
		return []models.Agent{
			{ID: "recA1", Name: "Maya", Surname: "Reyes"},
			{ID: "recA2", Name: "Tom", Surname: "Okafor"},
		}, nil
	})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	index := cache.NameIndex()
	if index["recA1"] != "Maya Reyes" || index["recA2"] != "Tom Okafor" {
		t.Errorf("unexpected index: %v", index)
	}
}
