// Package domain contains the core data types for the MyRide Explorer backend.
// This package has zero external dependencies and is imported by every other
// internal package (relay, justride, calendar, handler).
package domain

import "time"

// TapEvent is a single fare-validation scan recorded by the transit agency.
// Events are fetched read-only from the upstream ticketing API and are never
// mutated or persisted locally; they live only for the duration of one view.
type TapEvent struct {
	// ScanID uniquely identifies the scan within a fetched batch.
	ScanID string `json:"scanId"`
	// RouteID is the transit route the tap was recorded on.
	RouteID string `json:"routeId"`
	// ServerTimestamp is the upstream record time in epoch milliseconds.
	// No timezone is embedded; display must convert to the viewer's local time.
	ServerTimestamp int64 `json:"serverTimestamp"`
	// VehicleID identifies the vehicle the validator was mounted on.
	VehicleID string `json:"vehicleId"`
	// Outcome is the coarse scan result classification (e.g. "ACCEPTED").
	Outcome string `json:"outcome"`
	// DisplayContext is a small ordered list of label/value display annotations.
	DisplayContext []DisplayContextEntry `json:"displayContext"`

	// Fare and product metadata, carried opaquely for display only.
	Brand       string  `json:"brand,omitempty"`
	TokenName   string  `json:"tokenName,omitempty"`
	ProductName string  `json:"productName,omitempty"`
	MediaFormat string  `json:"mediaFormat,omitempty"`
	TripStart   int64   `json:"tripStart,omitempty"`
	ProductEnd  int64   `json:"productEnd,omitempty"`
	Location    GeoPoint `json:"location"`
}

// DisplayContextEntry is one label/value annotation attached to a tap event.
type DisplayContextEntry struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// GeoPoint is the lon/lat position reported by the validator.
type GeoPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Time returns the event timestamp in the given location.
func (e TapEvent) Time(loc *time.Location) time.Time {
	return time.UnixMilli(e.ServerTimestamp).In(loc)
}
