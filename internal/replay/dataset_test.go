package replay

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"fraudtriage/internal/domain/model"
)

func writeFixture(t *testing.T, rows int, withClass bool) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(model.FeatureNames(), ","))
	if withClass {
		b.WriteString(",Class")
	}
	b.WriteString("\n")
	for i := 0; i < rows; i++ {
		cells := make([]string, model.NumFeatures)
		for j := range cells {
			cells[j] = "0"
		}
		cells[0] = strconv.Itoa(i)         // Time
		cells[model.NumFeatures-1] = "9.5" // Amount
		b.WriteString(strings.Join(cells, ","))
		if withClass {
			b.WriteString("," + strconv.Itoa(i%2))
		}
		b.WriteString("\n")
	}

	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadDataset(t *testing.T) {
	path := writeFixture(t, 4, true)

	txs, labels, err := loadDataset(path, 0)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(txs) != 4 || len(labels) != 4 {
		t.Fatalf("expected 4 rows, got %d transactions and %d labels", len(txs), len(labels))
	}
	if txs[2].Time != 2 || txs[2].Amount != 9.5 {
		t.Errorf("unexpected row 2: Time=%v Amount=%v", txs[2].Time, txs[2].Amount)
	}
	if labels[0] != 0 || labels[1] != 1 {
		t.Errorf("unexpected labels: %v", labels)
	}
}

func TestLoadDataset_Limit(t *testing.T) {
	path := writeFixture(t, 10, true)

	txs, _, err := loadDataset(path, 3)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(txs) != 3 {
		t.Errorf("expected limit of 3 rows, got %d", len(txs))
	}
}

func TestLoadDataset_WithoutClassColumn(t *testing.T) {
	path := writeFixture(t, 2, false)

	_, labels, err := loadDataset(path, 0)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	for i, l := range labels {
		if l != 0 {
			t.Errorf("expected default label 0 at row %d, got %d", i, l)
		}
	}
}

func TestLoadDataset_Errors(t *testing.T) {
	if _, _, err := loadDataset(filepath.Join(t.TempDir(), "missing.csv"), 0); err == nil {
		t.Error("expected missing file to fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(bad, []byte("a,b\n1,2\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, _, err := loadDataset(bad, 0); err == nil {
		t.Error("expected missing columns to fail")
	}

	empty := filepath.Join(t.TempDir(), "empty.csv")
	header := strings.Join(model.FeatureNames(), ",") + "\n"
	if err := os.WriteFile(empty, []byte(header), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, _, err := loadDataset(empty, 0); err == nil {
		t.Error("expected dataset with no rows to fail")
	}
}
