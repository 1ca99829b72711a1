package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"fraudtriage/internal/domain/model"
)

// loadDataset reads up to limit transactions (0 = all) and their labels
// from a CSV file with Time, V1..V28, Amount and optional Class columns.
func loadDataset(path string, limit int) ([]model.Transaction, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset header: %w", err)
	}

	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[name] = i
	}
	featureIdx := make([]int, 0, model.NumFeatures)
	for _, name := range model.FeatureNames() {
		idx, ok := byName[name]
		if !ok {
			return nil, nil, fmt.Errorf("dataset missing column %s", name)
		}
		featureIdx = append(featureIdx, idx)
	}
	classIdx, hasClass := byName["Class"]

	var (
		txs    []model.Transaction
		labels []int
	)
	for limit <= 0 || len(txs) < limit {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read dataset row %d: %w", len(txs)+1, err)
		}

		var vec [model.NumFeatures]float64
		for i, idx := range featureIdx {
			v, err := strconv.ParseFloat(record[idx], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d column %s: %w", len(txs)+1, model.FeatureNames()[i], err)
			}
			vec[i] = v
		}

		label := 0
		if hasClass {
			if label, err = strconv.Atoi(record[classIdx]); err != nil {
				return nil, nil, fmt.Errorf("row %d column Class: %w", len(txs)+1, err)
			}
		}

		txs = append(txs, transactionFromVector(vec))
		labels = append(labels, label)
	}

	if len(txs) == 0 {
		return nil, nil, fmt.Errorf("dataset %s has no data rows", path)
	}
	return txs, labels, nil
}

func transactionFromVector(v [model.NumFeatures]float64) model.Transaction {
	return model.Transaction{
		Time: v[0],
		V1:   v[1], V2: v[2], V3: v[3], V4: v[4], V5: v[5], V6: v[6], V7: v[7],
		V8: v[8], V9: v[9], V10: v[10], V11: v[11], V12: v[12], V13: v[13], V14: v[14],
		V15: v[15], V16: v[16], V17: v[17], V18: v[18], V19: v[19], V20: v[20], V21: v[21],
		V22: v[22], V23: v[23], V24: v[24], V25: v[25], V26: v[26], V27: v[27], V28: v[28],
		Amount: v[29],
	}
}
