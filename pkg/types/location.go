package types

// Location is the latitude/longitude pair attached to users and pulperías.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
