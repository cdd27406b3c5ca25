package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/easel-app/easel/internal/store"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.OpenPath(filepath.Join(t.TempDir(), "easel.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.Conn())
}

func TestUpsertAndGet(t *testing.T) {
	s := testStore(t)

	svc := Service{ID: "svc-1", Name: "Chibi Icon", Category: "icons", Price: 45, Currency: "USD", Open: true}
	if err := s.Upsert(svc); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := s.Get("svc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Chibi Icon" || got.Category != "icons" || !got.Open {
		t.Errorf("fields lost: %+v", got)
	}

	// Upsert refreshes in place.
	svc.Price = 60
	svc.Open = false
	if err := s.Upsert(svc); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	got, _ = s.Get("svc-1")
	if got.Price != 60 || got.Open {
		t.Errorf("upsert should refresh: %+v", got)
	}
}

func TestUpsertRejectsEmptyID(t *testing.T) {
	s := testStore(t)
	if err := s.Upsert(Service{Name: "no id"}); err == nil {
		t.Fatal("expected error for empty service ID")
	}
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get("ghost"); err == nil {
		t.Fatal("expected error for missing service")
	}
}

func TestListOrdersByCategoryThenName(t *testing.T) {
	s := testStore(t)

	for _, svc := range []Service{
		{ID: "c", Name: "Ref Sheet", Category: "sheets"},
		{ID: "a", Name: "Chibi Icon", Category: "icons"},
		{ID: "b", Name: "Animated Icon", Category: "icons"},
	} {
		if err := s.Upsert(svc); err != nil {
			t.Fatalf("Upsert(%s): %v", svc.ID, err)
		}
	}

	services, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(services) != 3 {
		t.Fatalf("expected 3 services, got %d", len(services))
	}
	if services[0].ID != "b" || services[1].ID != "a" || services[2].ID != "c" {
		t.Errorf("order wrong: %s, %s, %s", services[0].ID, services[1].ID, services[2].ID)
	}
}

func TestImportFile(t *testing.T) {
	s := testStore(t)

	payload := `[
		{"serviceId": "svc-1", "title": "Chibi Icon", "category": "icons",
		 "price": {"from": 45, "currency": "USD"}, "isOpen": true},
		{"id": "svc-2", "title": "Banner", "category": "banners",
		 "price": {"from": 120, "currency": "USD"}, "isOpen": false}
	]`
	path := filepath.Join(t.TempDir(), "listings.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := s.ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported, got %d", n)
	}

	// serviceId wins over id when both name an entry.
	svc, err := s.Get("svc-1")
	if err != nil {
		t.Fatalf("Get svc-1: %v", err)
	}
	if svc.Price != 45 || !svc.Open {
		t.Errorf("svc-1 wrong: %+v", svc)
	}

	if _, err := s.ImportFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
