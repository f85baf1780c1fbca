package models

import "time"

// Car is a vehicle registered to a client.
type Car struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Plate     string    `json:"plate"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName is the plate plus make/model, used in budget and order tables.
func (c Car) DisplayName() string {
	if c.Make == "" && c.Model == "" {
		return c.Plate
	}
	return c.Plate + " (" + c.Make + " " + c.Model + ")"
}
