package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `Price,Date of Transfer,Property Type,Old/New,Duration,Town/City,District,County,PPD Category Type,Year,Month
250000,2021-03-15,D,0,F,LONDON,CAMDEN,GREATER LONDON,A,2021,3
310000,2021-07-01,S,1,L,LEEDS,LEEDS,WEST YORKSHIRE,A,2021,7
180000,2022-01-20,T,0,F,BRISTOL,BRISTOL,CITY OF BRISTOL,B,2022,1
420000,2022-11-05,D,1,F,LONDON,CAMDEN,GREATER LONDON,A,2022,11
150000,2023-02-14,F,0,L,LEEDS,LEEDS,WEST YORKSHIRE,A,2023,2
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "HousePricesRecords_clean.csv")
	if err := os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0o644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	return path
}
