package ratetable

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const validDoc = `{
  "version": "v1",
  "serviceTypes": {
    "standard": {"label": "Standard", "deliveryDays": "5-7"},
    "express": {"deliveryDays": "1", "hidden": true}
  },
  "zones": {
    "national": {
      "standard": {"perKgRate": 50, "minimumCharge": 100},
      "express": {"perKgRate": 90, "minimumCharge": 150}
    }
  },
  "fuelSurchargePercent": 0.1,
  "taxPercent": 0.18
}`

func TestParse_Valid(t *testing.T) {
	tbl, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Currency != "INR" {
		t.Errorf("default currency = %q, want INR", tbl.Currency)
	}
	rate, zoneOK, svcOK := tbl.Lookup("national", "standard")
	if !zoneOK || !svcOK || rate.PerKgRate != 50 || rate.MinimumCharge != 100 {
		t.Errorf("Lookup = %+v %v %v", rate, zoneOK, svcOK)
	}
	if !tbl.ServiceTypes["express"].Hidden {
		t.Error("express should be hidden")
	}
	if got := tbl.ServicesIn("national"); len(got) != 2 || got[0] != "express" {
		t.Errorf("ServicesIn = %v", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		hint string
	}{
		{"not json", `{`, "decode"},
		{"unknown field", strings.Replace(validDoc, `"taxPercent"`, `"vat": 1, "taxPercent"`, 1), "unknown field"},
		{"no zones", `{"serviceTypes": {"standard": {"deliveryDays": "5"}}, "zones": {}, "fuelSurchargePercent": 0, "taxPercent": 0}`, "Zones"},
		{"undeclared service", strings.Replace(validDoc, `"express": {"perKgRate"`, `"overnight": {"perKgRate"`, 1), "overnight"},
		{"zero per kg rate", strings.Replace(validDoc, `"perKgRate": 50`, `"perKgRate": 0`, 1), "PerKgRate"},
		{"negative minimum", strings.Replace(validDoc, `"minimumCharge": 100`, `"minimumCharge": -1`, 1), "MinimumCharge"},
		{"negative tax", strings.Replace(validDoc, `"taxPercent": 0.18`, `"taxPercent": -0.18`, 1), "TaxPercent"},
		{"missing delivery days", strings.Replace(validDoc, `"deliveryDays": "5-7"`, `"deliveryDays": ""`, 1), "DeliveryDays"},
		{"unknown top-level key", strings.Replace(validDoc, `"fuelSurchargePercent"`, `"zones2": 1, "fuelSurchargePercent"`, 1), "unknown field"},
		{"trailing garbage", validDoc + "x", "after the rate table"},
		{"second document", validDoc + validDoc, "after the rate table"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if !errors.Is(err, ErrInvalidTable) {
				t.Fatalf("expected ErrInvalidTable, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.hint) {
				t.Errorf("error %q does not mention %q", err, tc.hint)
			}
		})
	}
}

func TestParse_TrailingWhitespace(t *testing.T) {
	if _, err := Parse([]byte(validDoc + "\n\t \n")); err != nil {
		t.Fatalf("trailing whitespace rejected: %v", err)
	}
}

func TestParse_SampleConfig(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "configs", "rates.json"))
	if err != nil {
		t.Skipf("sample config not found: %v", err)
	}
	tbl, err := Parse(data)
	if err != nil {
		t.Fatalf("configs/rates.json: %v", err)
	}
	rate, _, ok := tbl.Lookup("national", "standard")
	if !ok || rate.PerKgRate != 50 || rate.MinimumCharge != 100 {
		t.Errorf("national/standard = %+v", rate)
	}
}

type stubSource struct {
	mu    sync.Mutex
	table *RateTable
	err   error
	calls int
}

func (s *stubSource) Load(context.Context) (*RateTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.table, s.err
}

func (s *stubSource) set(t *RateTable, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table, s.err = t, err
}

func mustParse(t *testing.T, doc string) *RateTable {
	t.Helper()
	tbl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tbl
}

func TestRegistry_ReloadKeepsPreviousOnFailure(t *testing.T) {
	ctx := context.Background()
	src := &stubSource{}
	reg := NewRegistry(src, nil)

	if _, err := reg.Table(ctx); !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable before first load, got %v", err)
	}

	v1 := mustParse(t, validDoc)
	src.set(v1, nil)
	if _, err := reg.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if reg.Current() != v1 {
		t.Fatal("expected v1 to be live")
	}
	if reg.LoadedAt().IsZero() {
		t.Error("LoadedAt not recorded")
	}

	src.set(nil, errors.New("disk on fire"))
	if _, err := reg.Reload(ctx); err == nil {
		t.Fatal("expected reload error")
	}
	if reg.Current() != v1 {
		t.Fatal("failed reload replaced the live table")
	}

	broken := mustParse(t, validDoc)
	broken.Zones["national"]["overnight"] = ServiceRate{PerKgRate: 1}
	src.set(broken, nil)
	if _, err := reg.Reload(ctx); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected ErrInvalidTable, got %v", err)
	}
	if reg.Current() != v1 {
		t.Fatal("invalid table became live")
	}
}

func TestRegistry_ConcurrentReadersSeeWholeTables(t *testing.T) {
	ctx := context.Background()
	v1 := mustParse(t, validDoc)
	v2 := mustParse(t, strings.Replace(strings.Replace(validDoc, `"v1"`, `"v2"`, 1), `"perKgRate": 50`, `"perKgRate": 55`, 1))
	src := &stubSource{table: v1}
	reg := NewRegistry(src, nil)
	if _, err := reg.Reload(ctx); err != nil {
		t.Fatal(err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	bad := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				tbl := reg.Current()
				rate := tbl.Zones["national"]["standard"].PerKgRate
				if (tbl.Version == "v1" && rate != 50) || (tbl.Version == "v2" && rate != 55) {
					bad <- tbl.Version
					return
				}
			}
		}()
	}
	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			src.set(v2, nil)
		} else {
			src.set(v1, nil)
		}
		if _, err := reg.Reload(ctx); err != nil {
			t.Fatal(err)
		}
	}
	close(stop)
	wg.Wait()
	close(bad)
	for v := range bad {
		t.Fatalf("reader observed inconsistent table %s", v)
	}
}

func TestRegistry_RunReloaderStopsWithContext(t *testing.T) {
	src := &stubSource{table: mustParse(t, validDoc)}
	reg := NewRegistry(src, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reg.RunReloader(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for reg.Current() == nil {
		select {
		case <-deadline:
			t.Fatal("reloader never loaded a table")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunReloader did not return after cancel")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	if err := os.WriteFile(path, []byte(validDoc), 0o600); err != nil {
		t.Fatal(err)
	}
	tbl, err := FileSource{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Version != "v1" {
		t.Errorf("Version = %q", tbl.Version)
	}
	if _, err := (FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}).Load(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}
