package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/warehouse-api/internal/application/fulfillment"
)

// PickListPDFGenerator puerto de salida para renderizar la hoja de picking.
type PickListPDFGenerator interface {
	GeneratePickListPDF(ctx context.Context, list *fulfillment.PickList) ([]byte, error)
}

// PickListUseCase genera el PDF de picking de una orden.
type PickListUseCase struct {
	engine    *fulfillment.Engine
	generator PickListPDFGenerator
}

// NewPickListUseCase construye el caso de uso.
func NewPickListUseCase(engine *fulfillment.Engine, generator PickListPDFGenerator) *PickListUseCase {
	return &PickListUseCase{engine: engine, generator: generator}
}

// DownloadPickListPDF arma la hoja de picking y la renderiza.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrOrderNotFound    si la orden no existe.
func (uc *PickListUseCase) DownloadPickListPDF(ctx context.Context, orderID string) (pdfBytes []byte, filename string, err error) {
	list, err := uc.engine.PickList(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GeneratePickListPDF(ctx, list)
	if err != nil {
		return nil, "", fmt.Errorf("picklist: generar pdf: %w", err)
	}
	short := orderID
	if len(short) > 8 {
		short = short[:8]
	}
	return pdfBytes, fmt.Sprintf("picking-%s.pdf", short), nil
}
