package project

import "time"

// Run records one analysis of the project dataset.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Preset    string    `json:"preset"`
	RowsRead  int       `json:"rows_read"`
	Records   int       `json:"records"`
	Filtered  int       `json:"filtered"`
	Tables    int       `json:"tables"`
	Warnings  int       `json:"warnings"`
	Reports   []string  `json:"reports"`
	CreatedAt time.Time `json:"created_at"`
}
