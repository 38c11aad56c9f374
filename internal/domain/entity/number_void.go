package entity

import "time"

// NumberVoid registro de inutilización de un rango de numeración (nNF) no utilizado.
type NumberVoid struct {
	ID            string
	CompanyID     string
	Model         string
	Series        string
	Start         int
	End           int
	Justification string
	CreatedBy     string
	CreatedAt     time.Time
}
