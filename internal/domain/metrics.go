package domain

// Metrics holds the headline error figures written by the training process.
// A nil field means the file did not report it.
type Metrics struct {
	MAE  *float64 `json:"mae"`
	RMSE *float64 `json:"rmse"`
	R2   *float64 `json:"r2"`
}

// IsEmpty reports whether no figure is available.
func (m Metrics) IsEmpty() bool {
	return m.MAE == nil && m.RMSE == nil && m.R2 == nil
}
