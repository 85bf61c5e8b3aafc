package models

import "github.com/google/uuid"

// ensureID fills a primary key the application did not set; ids are
// generated client side so inserts behave the same on every driver.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
