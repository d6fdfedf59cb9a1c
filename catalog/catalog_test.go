package catalog

import "testing"

func TestDefaultCatalog(t *testing.T) {
	if len(Default) == 0 {
		t.Fatal("default catalog is empty")
	}

	seen := make(map[string]string, len(Default))
	for _, entry := range Default {
		if entry.Name == "" || entry.SeriesID == "" {
			t.Errorf("entry with empty field: %+v", entry)
		}
		if prev, ok := seen[entry.SeriesID]; ok {
			t.Errorf("duplicate series id %s (%s and %s)", entry.SeriesID, prev, entry.Name)
		}
		seen[entry.SeriesID] = entry.Name
	}
}

func TestDefaultCatalogOrderIsStable(t *testing.T) {
	// The batch walks the catalog top to bottom; the first entry is
	// part of that contract.
	if Default[0].SeriesID != "PCEPI" {
		t.Errorf("unexpected first entry: %+v", Default[0])
	}
}
