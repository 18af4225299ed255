package model

// Page represents a row of the trip_page table: a named logical document
// assembled from a skeleton template and the page's active snippets.
type Page struct {
	ID          int64
	Name        string
	Description string
}
