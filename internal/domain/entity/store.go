package entity

// Store is a physical FERREMAS branch where paid orders can be picked up.
type Store struct {
	ID        uint
	Name      string
	Address   string
	City      string
	Phone     string
	Latitude  float64
	Longitude float64
}

// StoreDistance pairs a store with its distance from a query point.
type StoreDistance struct {
	Store      *Store
	DistanceKm float64
}
