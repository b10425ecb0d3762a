package entity

import (
	"fmt"
	"time"
)

// Module representa una sección física de la bodega ubicada en la grilla (fila, columna).
// Inmutable después de creado; define el espacio de coordenadas de sus bandejas.
type Module struct {
	ID        string
	Label     string // etiqueta humana, ej. "IL1"
	Row       int
	Column    int
	CreatedAt time.Time
}

// Tray es la ubicación direccionable más pequeña dentro de un módulo.
// Nunca la comparten dos productos a la vez (ver StockAssignment).
type Tray struct {
	ID        string
	ModuleID  string
	SlotIndex int
	Capacity  int // cantidad máxima que puede contener
	CreatedAt time.Time
}

// Location par (módulo, bandeja) tal como lo expone el registro de ubicaciones.
type Location struct {
	Module Module
	Tray   Tray
}

// Code devuelve el código legible de la ubicación, ej. "IL1-03".
func (l Location) Code() string {
	return LocationCode(l.Module.Label, l.Tray.SlotIndex)
}

// LocationCode arma el código de ubicación a partir de la etiqueta del módulo y el slot.
func LocationCode(moduleLabel string, slot int) string {
	return fmt.Sprintf("%s-%02d", moduleLabel, slot)
}

// Less ordena ubicaciones por (fila, columna, slot); desempata por ID para ser determinista.
func (l Location) Less(o Location) bool {
	if l.Module.Row != o.Module.Row {
		return l.Module.Row < o.Module.Row
	}
	if l.Module.Column != o.Module.Column {
		return l.Module.Column < o.Module.Column
	}
	if l.Tray.SlotIndex != o.Tray.SlotIndex {
		return l.Tray.SlotIndex < o.Tray.SlotIndex
	}
	return l.Tray.ID < o.Tray.ID
}
