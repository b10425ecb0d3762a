package ledger

// Recorder recibe el resultado de cada operación del ledger (métricas).
type Recorder interface {
	ObserveStockOperation(op, result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStockOperation(string, string) {}
